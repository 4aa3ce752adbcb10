package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is returned for dates not formatted as YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be a valid calendar date formatted as YYYY-MM-DD")

	// ErrGeneratorFailed is returned when the generator process exits non-zero
	// or cannot be started.
	ErrGeneratorFailed = errors.New("failed to generate post")

	// ErrGeneratorTimeout is returned when the generator outlives its deadline.
	ErrGeneratorTimeout = errors.New("post generation timed out")

	// ErrOutputMissing is returned when the process succeeded but left no post behind.
	ErrOutputMissing = errors.New("generated post file not found")

	// ErrOutputEmpty is returned when the generated post file holds no text.
	ErrOutputEmpty = errors.New("generated post is empty")
)

// ProcessError carries the diagnostic output of a failed generator run.
type ProcessError struct {
	ExitCode   int    // Process exit code, -1 when it never exited normally
	Diagnostic string // Captured stderr, or stdout when no output file was produced
	Err        error  // One of the sentinel errors above
}

func (e *ProcessError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("%v (exit code %d)", e.Err, e.ExitCode)
	}

	return fmt.Sprintf("%v (exit code %d): %s", e.Err, e.ExitCode, e.Diagnostic)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
