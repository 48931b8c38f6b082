// Package apperrors defines application-level error types.
package apperrors

import (
	"fmt"
	"strings"
)

// DefinitionError indicates a report definition is structurally invalid.
// It is always surfaced before any record is processed.
type DefinitionError struct {
	Report string   // Report the definition belongs to
	Issues []string // Every violation found, not just the first
}

func (e *DefinitionError) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("report %s: invalid definition", e.Report)
	}
	return fmt.Sprintf("report %s: invalid definition:\n  - %s",
		e.Report, strings.Join(e.Issues, "\n  - "))
}

// NewDefinitionError creates a new definition error.
func NewDefinitionError(report string, issues ...string) *DefinitionError {
	return &DefinitionError{
		Report: report,
		Issues: issues,
	}
}

// ParameterError indicates one or more supplied parameters failed
// validation. All failures are carried so a caller can report every
// problem at once.
type ParameterError struct {
	Issues []string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter validation failed:\n  - %s",
		strings.Join(e.Issues, "\n  - "))
}

// NewParameterError creates a new parameter error.
func NewParameterError(issues ...string) *ParameterError {
	return &ParameterError{Issues: issues}
}

// StreamError indicates the upstream record source failed or timed out
// mid-run. Instructions emitted before the failure remain available.
type StreamError struct {
	Cause  error
	Record int // Index of the record being pulled when the source failed
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("record source failed at record %d: %v", e.Record, e.Cause)
}

func (e *StreamError) Unwrap() error {
	return e.Cause
}

// NewStreamError creates a new stream error.
func NewStreamError(record int, cause error) *StreamError {
	return &StreamError{Record: record, Cause: cause}
}

// CancelledError indicates the caller cancelled the run between records.
// It is tagged distinctly from StreamError so callers can tell "cancelled"
// from "failed"; the partial-output contract is the same.
type CancelledError struct {
	Cause  error
	Record int
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("run cancelled at record %d: %v", e.Record, e.Cause)
}

func (e *CancelledError) Unwrap() error {
	return e.Cause
}

// NewCancelledError creates a new cancellation error.
func NewCancelledError(record int, cause error) *CancelledError {
	return &CancelledError{Record: record, Cause: cause}
}
