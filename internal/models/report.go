package models

import (
	"strconv"
	"time"
)

// ResultRow is one exported record from the patients/lab_results join,
// decoded once at the query boundary.
type ResultRow struct {
	CheckDate    string `json:"check_date" gorm:"column:check_date"`
	ResultNumber string `json:"result_number" gorm:"column:result_number"`
	PatientName  string `json:"patient_name" gorm:"column:patient_name"`
	BirthYear    *int64 `json:"birth_year" gorm:"column:birth_year"`
	TestName     string `json:"test_name" gorm:"column:test_name"`
	TestResult   string `json:"test_result" gorm:"column:test_result"`
	TestUnit     string `json:"test_unit" gorm:"column:test_unit"`
	Doctor       string `json:"doctor" gorm:"column:doctor"`
}

// CSVRecord renders the row for serialization. Nil cells become empty
// strings; the file never carries a null marker.
func (r ResultRow) CSVRecord() []string {
	birthYear := ""
	if r.BirthYear != nil {
		birthYear = strconv.FormatInt(*r.BirthYear, 10)
	}
	return []string{
		r.CheckDate,
		r.ResultNumber,
		r.PatientName,
		birthYear,
		r.TestName,
		r.TestResult,
		r.TestUnit,
		r.Doctor,
	}
}

// ExportRequest describes one pipeline run. Filter is always an 8-digit
// yyyyMMdd prefix; it is rewritten once by date resolution and immutable
// afterwards.
type ExportRequest struct {
	RequestedDate time.Time `json:"requested_date"`
	Filter        string    `json:"filter"`
	DisplayDate   string    `json:"display_date"`
	ExportDir     string    `json:"export_dir"`
}

type StageName string

const (
	StageResolve StageName = "resolve_date"
	StageExport  StageName = "export_csv"
	StageConvert StageName = "convert_spreadsheet"
	StageFormat  StageName = "format_spreadsheet"
)

type StageStatus string

const (
	StageSuccess      StageStatus = "success"
	StageSkippedEmpty StageStatus = "skipped-empty"
	StageFailed       StageStatus = "failed"
)

// StageResult is the per-stage outcome. Failures are carried here for the
// run summary instead of propagating as errors across stage boundaries.
type StageResult struct {
	Stage   StageName   `json:"stage"`
	Status  StageStatus `json:"status"`
	Message string      `json:"message,omitempty"`
	Rows    int         `json:"rows,omitempty"`
}

// RunSummary aggregates the outcomes of a single pipeline run for logging.
type RunSummary struct {
	RunID           string        `json:"run_id"`
	RequestedDate   string        `json:"requested_date"`
	DisplayDate     string        `json:"display_date"`
	CSVPath         string        `json:"csv_path,omitempty"`
	SpreadsheetPath string        `json:"spreadsheet_path,omitempty"`
	Stages          []StageResult `json:"stages"`
}

func (s *RunSummary) Add(result StageResult) {
	s.Stages = append(s.Stages, result)
}

// StageStatusOf returns the recorded status for a stage, or "" when the
// stage never ran.
func (s *RunSummary) StageStatusOf(stage StageName) StageStatus {
	for _, res := range s.Stages {
		if res.Stage == stage {
			return res.Status
		}
	}
	return ""
}
