package postgres

import (
	"context"
	"time"

	apperrors "github.com/labcore/results-export-service/internal/errors"
	"github.com/labcore/results-export-service/internal/models"
	"github.com/labcore/results-export-service/internal/repositories"
	"gorm.io/gorm"
)

// commandTimeout bounds every statement issued by the exporter.
const commandTimeout = 300 * time.Second

// reportQuery is the consolidated join. The display date is rearranged from
// the identifier substrings into dd-mm-yyyy, the result number is the
// trailing identifier characters, and a zero birth year is nulled so it
// serializes as an empty cell.
const reportQuery = `
SELECT
    substr(p.id, 7, 2) || '-' || substr(p.id, 5, 2) || '-' || substr(p.id, 1, 4) AS check_date,
    substr(p.id, 9) AS result_number,
    p.patient_name,
    NULLIF(p.birth_year, 0) AS birth_year,
    r.test_name,
    r.test_result,
    r.test_unit,
    p.doctor
FROM patients p
JOIN lab_results r ON r.patient_id = p.id
WHERE p.id LIKE ?
ORDER BY p.id, r.test_name`

type ReportPostgreSQL struct {
	db *gorm.DB
}

func NewReportPostgreSQL(db *gorm.DB) repositories.ReportRepository {
	return &ReportPostgreSQL{db: db}
}

// session opens a fresh scoped statement context per call. The pooled
// connection is released when the statement finishes and the deferred
// cancel runs, so nothing is held across stage boundaries.
func (r *ReportPostgreSQL) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	scoped, cancel := context.WithTimeout(ctx, commandTimeout)
	return r.db.WithContext(scoped).Session(&gorm.Session{NewDB: true}), cancel
}

func (r *ReportPostgreSQL) CountByDatePrefix(ctx context.Context, prefix string) (int64, error) {
	tx, cancel := r.session(ctx)
	defer cancel()

	var count int64
	err := tx.Model(&models.Patient{}).
		Where("id LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return 0, apperrors.NewDatabaseError("count by date prefix", err)
	}

	return count, nil
}

func (r *ReportPostgreSQL) LatestNumericDatePrefix(ctx context.Context) (string, error) {
	tx, cancel := r.session(ctx)
	defer cancel()

	var prefixes []string
	err := tx.Raw(
		`SELECT DISTINCT substr(id, 1, 8) AS prefix FROM patients ORDER BY prefix DESC`,
	).Scan(&prefixes).Error
	if err != nil {
		return "", apperrors.NewDatabaseError("latest numeric date prefix", err)
	}

	for _, prefix := range prefixes {
		if isNumericPrefix(prefix) {
			return prefix, nil
		}
	}

	return "", nil
}

func (r *ReportPostgreSQL) FetchReportRows(ctx context.Context, prefix string) ([]models.ResultRow, error) {
	tx, cancel := r.session(ctx)
	defer cancel()

	var rows []models.ResultRow
	if err := tx.Raw(reportQuery, prefix+"%").Scan(&rows).Error; err != nil {
		return nil, apperrors.NewDatabaseError("fetch report rows", err)
	}

	return rows, nil
}

func (r *ReportPostgreSQL) Ping(ctx context.Context) error {
	scoped, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	sqlDB, err := r.db.DB()
	if err != nil {
		return apperrors.NewDatabaseError("ping", err)
	}
	if err := sqlDB.PingContext(scoped); err != nil {
		return apperrors.NewDatabaseError("ping", err)
	}

	return nil
}

func isNumericPrefix(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
