package errors

import (
	"errors"
	"fmt"
)

// ErrToolMissing marks a configured conversion utility that does not exist
// on disk.
var ErrToolMissing = errors.New("conversion tool not found")

// DatabaseError wraps a connection or execution failure from the store,
// carrying the original message. No retry is attempted.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error in %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func NewDatabaseError(op string, err error) error {
	return &DatabaseError{Op: op, Err: err}
}

// ConversionError reports a spreadsheet conversion that ran but did not
// succeed. ExitCode is the subprocess status, or -1 when the failure
// happened before the tool could report one.
type ConversionError struct {
	Tool     string
	ExitCode int
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed (%s, exit %d): %v", e.Tool, e.ExitCode, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// IsDatabaseError checks if error represents a store-level failure.
func IsDatabaseError(err error) bool {
	var de *DatabaseError
	return errors.As(err, &de)
}

// IsConversionError checks if error represents a failed spreadsheet
// conversion.
func IsConversionError(err error) bool {
	var ce *ConversionError
	return errors.As(err, &ce)
}
