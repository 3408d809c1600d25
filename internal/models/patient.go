package models

// Patient is keyed by an identifier whose first 8 characters encode the
// check-in date (yyyyMMdd) and whose remainder encodes a per-day sequence
// number, e.g. "2024031012".
type Patient struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	PatientName string `json:"patient_name" gorm:"not null;size:100"`
	BirthYear   *int   `json:"birth_year"`
	Doctor      string `json:"doctor" gorm:"size:100"`
}

func (Patient) TableName() string {
	return "patients"
}

// LabResult is one test outcome for a patient record. Several results share
// the same patient identifier.
type LabResult struct {
	ID         uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	PatientID  string `json:"patient_id" gorm:"index;not null;size:32"`
	TestName   string `json:"test_name" gorm:"not null;size:100"`
	TestResult string `json:"test_result" gorm:"size:100"`
	TestUnit   string `json:"test_unit" gorm:"size:50"`
}

func (LabResult) TableName() string {
	return "lab_results"
}
