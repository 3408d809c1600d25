package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/labcore/results-export-service/internal/models"
	"github.com/labcore/results-export-service/internal/repositories"
	"github.com/labcore/results-export-service/internal/utils"
)

// csvHeader mirrors the columns of the consolidated join.
var csvHeader = []string{
	"Check Date", "Result Number", "Patient Name", "Birth Year",
	"Test Name", "Test Result", "Test Unit", "Doctor",
}

// ReportExporter runs the consolidated query and serializes the rows to a
// CSV file, UTF-8 without a byte-order mark. Query and I/O failures are
// converted into a failed stage outcome, never re-thrown.
type ReportExporter struct {
	repo   repositories.ReportRepository
	logger utils.Logger
}

func NewReportExporter(repo repositories.ReportRepository, logger utils.Logger) *ReportExporter {
	return &ReportExporter{repo: repo, logger: logger}
}

// Export writes the report for the given identifier prefix to csvPath. A
// zero-row result produces no file and a skipped-empty outcome.
func (e *ReportExporter) Export(ctx context.Context, filter, csvPath string) models.StageResult {
	rows, err := e.repo.FetchReportRows(ctx, filter)
	if err != nil {
		e.logger.LogError(err, "report query failed", "filter", filter)
		return models.StageResult{
			Stage:   models.StageExport,
			Status:  models.StageFailed,
			Message: err.Error(),
		}
	}

	if len(rows) == 0 {
		e.logger.Warn("no rows for filter, skipping export", "filter", filter)
		return models.StageResult{
			Stage:   models.StageExport,
			Status:  models.StageSkippedEmpty,
			Message: fmt.Sprintf("no records match prefix %s", filter),
		}
	}

	if err := e.writeCSV(csvPath, rows); err != nil {
		e.logger.LogError(err, "csv write failed", "path", csvPath)
		return models.StageResult{
			Stage:   models.StageExport,
			Status:  models.StageFailed,
			Message: err.Error(),
		}
	}

	e.logger.Info("report exported", "path", csvPath, "rows", len(rows))
	return models.StageResult{
		Stage:  models.StageExport,
		Status: models.StageSuccess,
		Rows:   len(rows),
	}
}

func (e *ReportExporter) writeCSV(path string, rows []models.ResultRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.CSVRecord()); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv writer error: %w", err)
	}

	return file.Close()
}
