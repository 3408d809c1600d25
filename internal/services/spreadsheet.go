package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	apperrors "github.com/labcore/results-export-service/internal/errors"
	"github.com/xuri/excelize/v2"
)

// SpreadsheetConverter derives an XLSX artifact from a CSV file. The
// spreadsheet is best-effort: its absence never invalidates the CSV.
type SpreadsheetConverter interface {
	Convert(csvPath string) (string, error)
}

// SpreadsheetFormatter applies the report column layout to a produced
// workbook.
type SpreadsheetFormatter interface {
	Format(spreadsheetPath string) error
}

// SpreadsheetPath derives the XLSX path from the CSV path by swapping the
// extension.
func SpreadsheetPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".xlsx"
}

// ===== IN-PROCESS CONVERTER =====

// ExcelizeConverter writes the workbook with excelize, avoiding any
// dependency on an installed desktop application.
type ExcelizeConverter struct{}

func (c *ExcelizeConverter) Convert(csvPath string) (string, error) {
	records, err := readCSV(csvPath)
	if err != nil {
		return "", err
	}

	outPath := SpreadsheetPath(csvPath)
	if err := removeExisting(outPath); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return "", fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		row := make([]interface{}, len(record))
		for j, value := range record {
			row[j] = value
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		return "", fmt.Errorf("failed to save spreadsheet %s: %w", outPath, err)
	}

	return outPath, nil
}

// ===== EXTERNAL TOOL CONVERTER =====

// ToolConverter invokes an external conversion utility as a subprocess.
// Success is solely a zero exit status.
type ToolConverter struct {
	ToolPath string
}

// NewToolConverter resolves a relative tool path against the directory of
// the running executable.
func NewToolConverter(toolPath string) *ToolConverter {
	if !filepath.IsAbs(toolPath) {
		if exe, err := os.Executable(); err == nil {
			toolPath = filepath.Join(filepath.Dir(exe), toolPath)
		}
	}
	return &ToolConverter{ToolPath: toolPath}
}

func (c *ToolConverter) Convert(csvPath string) (string, error) {
	if _, err := os.Stat(c.ToolPath); err != nil {
		return "", fmt.Errorf("%w: %s", apperrors.ErrToolMissing, c.ToolPath)
	}

	outPath := SpreadsheetPath(csvPath)
	if err := removeExisting(outPath); err != nil {
		return "", err
	}

	cmd := exec.Command(c.ToolPath, csvPath, outPath)
	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return "", &apperrors.ConversionError{
			Tool:     c.ToolPath,
			ExitCode: exitCode,
			Err:      err,
		}
	}

	return outPath, nil
}

// ===== FORMATTER =====

// Column widths reflecting the known report schema: the check date is a
// fixed-width stamp, the patient name needs room.
const (
	checkDateColWidth   = 12.0
	patientNameColWidth = 32.0
)

// ExcelizeFormatter opens the produced workbook, adjusts the report column
// widths, and saves. The workbook handle is released on every exit path.
type ExcelizeFormatter struct{}

func (f *ExcelizeFormatter) Format(spreadsheetPath string) error {
	book, err := excelize.OpenFile(spreadsheetPath)
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet %s: %w", spreadsheetPath, err)
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	if err := book.SetColWidth(sheet, "A", "A", checkDateColWidth); err != nil {
		return fmt.Errorf("failed to set check date column width: %w", err)
	}
	if err := book.SetColWidth(sheet, "C", "C", patientNameColWidth); err != nil {
		return fmt.Errorf("failed to set patient name column width: %w", err)
	}

	if err := book.Save(); err != nil {
		return fmt.Errorf("failed to save spreadsheet %s: %w", spreadsheetPath, err)
	}

	return nil
}

// ===== HELPERS =====

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv file %s: %w", path, err)
	}

	return records, nil
}

// removeExisting deletes a pre-existing artifact so conversion overwrites
// idempotently.
func removeExisting(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing file %s: %w", path, err)
	}
	return nil
}
