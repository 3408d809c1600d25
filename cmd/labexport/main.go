package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/labcore/results-export-service/internal/config"
	"github.com/labcore/results-export-service/internal/repositories/postgres"
	"github.com/labcore/results-export-service/internal/services"
	"github.com/labcore/results-export-service/internal/utils"
	"github.com/labcore/results-export-service/pkg"
)

func main() {
	os.Exit(run())
}

// run exits 1 only on the fatal conditions: unusable configuration or an
// unreachable database. Stage failures inside the pipeline still exit 0.
func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	logger := utils.NewPipelineLogger(cfg.EnableLogging, cfg.LogFile)
	defer logger.Close()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "startup database probe failed")
		return 1
	}

	repo := postgres.NewReportPostgreSQL(db)

	var converter services.SpreadsheetConverter
	if cfg.ConverterTool != "" {
		converter = services.NewToolConverter(cfg.ConverterTool)
	} else {
		converter = &services.ExcelizeConverter{}
	}

	pipeline := services.NewExportPipeline(repo, converter, &services.ExcelizeFormatter{}, logger, cfg.ExportDir)

	dateText := promptDate(os.Stdin, os.Stdout)
	pipeline.Run(context.Background(), dateText, time.Now())

	return 0
}

// promptDate reads the report date from the operator. Empty input selects
// the current date; invalid input is handled downstream by date resolution.
func promptDate(in io.Reader, out io.Writer) string {
	fmt.Fprint(out, "Report date (dd-mm-yyyy, empty for today): ")

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}
