package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labcore/results-export-service/internal/models"
	"github.com/labcore/results-export-service/internal/repositories"
	"github.com/labcore/results-export-service/internal/utils"
)

const reportFileSuffix = "_Full_Report_Patients_Results"

// ExportPipeline runs the stages strictly in sequence: resolve date, export
// CSV, convert to spreadsheet, format spreadsheet. Every stage outcome is
// captured in the run summary; no stage failure propagates as an error to
// the caller.
type ExportPipeline struct {
	resolver  *DateResolver
	exporter  *ReportExporter
	converter SpreadsheetConverter
	formatter SpreadsheetFormatter
	logger    utils.Logger
	exportDir string
}

func NewExportPipeline(
	repo repositories.ReportRepository,
	converter SpreadsheetConverter,
	formatter SpreadsheetFormatter,
	logger utils.Logger,
	exportDir string,
) *ExportPipeline {
	return &ExportPipeline{
		resolver:  NewDateResolver(repo, logger),
		exporter:  NewReportExporter(repo, logger),
		converter: converter,
		formatter: formatter,
		logger:    logger,
		exportDir: exportDir,
	}
}

// Run executes one export for the requested date text. today anchors the
// empty/invalid-input fallback.
func (p *ExportPipeline) Run(ctx context.Context, requestedDate string, today time.Time) models.RunSummary {
	summary := models.RunSummary{
		RunID:         uuid.NewString(),
		RequestedDate: requestedDate,
	}
	logger := p.logger.With("run_id", summary.RunID)

	requested := today
	if parsed, err := time.Parse(InputDateLayout, strings.TrimSpace(requestedDate)); err == nil {
		requested = parsed
	}

	filter, displayDate := p.resolver.Resolve(ctx, requestedDate, today)
	// Created once per run; the filter is final after resolution.
	request := models.ExportRequest{
		RequestedDate: requested,
		Filter:        filter,
		DisplayDate:   displayDate,
		ExportDir:     p.exportDir,
	}
	summary.DisplayDate = request.DisplayDate
	summary.Add(models.StageResult{
		Stage:   models.StageResolve,
		Status:  models.StageSuccess,
		Message: fmt.Sprintf("filter %s, display date %s", request.Filter, request.DisplayDate),
	})

	if err := os.MkdirAll(request.ExportDir, 0o755); err != nil {
		logger.LogError(err, "export directory unavailable", "dir", request.ExportDir)
		summary.Add(models.StageResult{
			Stage:   models.StageExport,
			Status:  models.StageFailed,
			Message: err.Error(),
		})
		p.logSummary(logger, summary)
		return summary
	}

	csvPath := filepath.Join(request.ExportDir, request.DisplayDate+reportFileSuffix+".csv")
	exportResult := p.exporter.Export(ctx, request.Filter, csvPath)
	summary.Add(exportResult)

	if exportResult.Status != models.StageSuccess {
		summary.Add(models.StageResult{
			Stage:   models.StageConvert,
			Status:  models.StageSkippedEmpty,
			Message: "no CSV produced",
		})
		summary.Add(models.StageResult{
			Stage:   models.StageFormat,
			Status:  models.StageSkippedEmpty,
			Message: "no spreadsheet produced",
		})
		p.logSummary(logger, summary)
		return summary
	}
	summary.CSVPath = csvPath

	// The CSV above stays valid whatever happens from here on.
	spreadsheetPath, err := p.converter.Convert(csvPath)
	if err != nil {
		logger.LogError(err, "spreadsheet conversion failed", "csv", csvPath)
		summary.Add(models.StageResult{
			Stage:   models.StageConvert,
			Status:  models.StageFailed,
			Message: err.Error(),
		})
		summary.Add(models.StageResult{
			Stage:   models.StageFormat,
			Status:  models.StageSkippedEmpty,
			Message: "no spreadsheet produced",
		})
		p.logSummary(logger, summary)
		return summary
	}
	summary.SpreadsheetPath = spreadsheetPath
	summary.Add(models.StageResult{
		Stage:   models.StageConvert,
		Status:  models.StageSuccess,
		Message: spreadsheetPath,
	})

	if err := p.formatter.Format(spreadsheetPath); err != nil {
		logger.Warn("spreadsheet formatting failed", "path", spreadsheetPath, "error", err)
		summary.Add(models.StageResult{
			Stage:   models.StageFormat,
			Status:  models.StageFailed,
			Message: err.Error(),
		})
	} else {
		summary.Add(models.StageResult{
			Stage:  models.StageFormat,
			Status: models.StageSuccess,
		})
	}

	p.logSummary(logger, summary)
	return summary
}

func (p *ExportPipeline) logSummary(logger utils.Logger, summary models.RunSummary) {
	args := []any{
		"requested_date", summary.RequestedDate,
		"display_date", summary.DisplayDate,
		"csv", summary.CSVPath,
		"spreadsheet", summary.SpreadsheetPath,
	}
	for _, stage := range summary.Stages {
		args = append(args, string(stage.Stage), string(stage.Status))
	}
	logger.Info("export run finished", args...)
}
