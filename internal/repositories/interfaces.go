package repositories

import (
	"context"

	"github.com/labcore/results-export-service/internal/models"
)

// ReportRepository is the store-facing contract of the export pipeline.
// Implementations return typed records decoded once at the query boundary.
type ReportRepository interface {
	// CountByDatePrefix counts patient records whose identifier starts with
	// the given 8-digit yyyyMMdd prefix.
	CountByDatePrefix(ctx context.Context, prefix string) (int64, error)

	// LatestNumericDatePrefix returns the most recent identifier prefix
	// whose leading 8 characters are fully numeric, or "" when no such
	// identifier exists.
	LatestNumericDatePrefix(ctx context.Context) (string, error)

	// FetchReportRows runs the consolidated patients/results join for the
	// given prefix, ordered by identifier then test name.
	FetchReportRows(ctx context.Context, prefix string) ([]models.ResultRow, error)

	// Ping probes store reachability at startup.
	Ping(ctx context.Context) error
}
