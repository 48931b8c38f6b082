// Package run provides domain models for report run results and the
// render context threaded through the pipeline.
package run

import (
	"time"

	"github.com/bandkit/bandkit/internal/domain/values"
	"github.com/bandkit/bandkit/internal/format"
)

// Outcome tags how a run ended.
type Outcome string

const (
	// OutcomeCompleted means the stream was fully consumed.
	OutcomeCompleted Outcome = "completed"
	// OutcomeFailed means a structural or stream error aborted the run.
	// Instructions emitted before the failure remain available.
	OutcomeFailed Outcome = "failed"
	// OutcomeCancelled means the caller cancelled the run between records.
	OutcomeCancelled Outcome = "cancelled"
)

// Instruction is one resolved element, ready for an output driver.
// Past this point the instruction is opaque to the core; it is handed
// verbatim to the renderer.
type Instruction struct {
	Band    string         `json:"band" yaml:"band"`
	Element string         `json:"element" yaml:"element"`
	Text    string         `json:"text" yaml:"text"`
	Options format.Options `json:"options,omitempty" yaml:"options,omitempty"`
	X       float64        `json:"x" yaml:"x"`
	Y       float64        `json:"y" yaml:"y"`
	Page    int            `json:"page" yaml:"page"`
	Record  int            `json:"record" yaml:"record"`
}

// Warning records a recoverable per-element failure. The raw value was
// substituted and processing continued.
type Warning struct {
	Band    string `json:"band" yaml:"band"`
	Element string `json:"element" yaml:"element"`
	Record  int    `json:"record" yaml:"record"`
	Message string `json:"message" yaml:"message"`
}

// Summary provides aggregate statistics about a run.
type Summary struct {
	Records      int `json:"records" yaml:"records"`
	Pages        int `json:"pages" yaml:"pages"`
	Instructions int `json:"instructions" yaml:"instructions"`
	GroupBreaks  int `json:"group_breaks" yaml:"group_breaks"`
	Warnings     int `json:"warnings" yaml:"warnings"`
}

// Result is the complete outcome of a report run. A run result is always
// one of Completed(instructions, warnings), Failed(errors, partial
// instructions) or Cancelled(partial instructions); no bare panic or
// unwrapped error escapes the core.
type Result struct {
	RunID         values.RunID  `json:"run_id" yaml:"run_id"`
	ReportName    string        `json:"report_name" yaml:"report_name"`
	ReportVersion string        `json:"report_version" yaml:"report_version"`
	Outcome       Outcome       `json:"outcome" yaml:"outcome"`
	StartTime     time.Time     `json:"start_time" yaml:"start_time"`
	EndTime       time.Time     `json:"end_time" yaml:"end_time"`
	Duration      time.Duration `json:"duration_ms" yaml:"duration_ms"`
	Instructions  []Instruction `json:"instructions" yaml:"instructions"`
	Warnings      []Warning     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors        []string      `json:"errors,omitempty" yaml:"errors,omitempty"`
	Summary       Summary       `json:"summary" yaml:"summary"`
}

// NewResult creates a result for a starting run.
func NewResult(reportName, reportVersion string) *Result {
	return &Result{
		RunID:         values.NewRunID(),
		ReportName:    reportName,
		ReportVersion: reportVersion,
		StartTime:     time.Now(),
		Instructions:  make([]Instruction, 0),
	}
}

// Finalize stamps the end time and computes the summary from the final
// render context.
func (r *Result) Finalize(outcome Outcome, ctx Context) {
	r.Outcome = outcome
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Instructions = ctx.Instructions
	r.Warnings = ctx.Warnings

	pages := 0
	if len(r.Instructions) > 0 || ctx.Cursor.Page > 0 {
		pages = ctx.Cursor.Page + 1
	}
	r.Summary = Summary{
		Records:      ctx.RecordsSeen,
		Pages:        pages,
		Instructions: len(r.Instructions),
		GroupBreaks:  ctx.GroupBreaks,
		Warnings:     len(r.Warnings),
	}
}

// Completed returns true when the stream was fully consumed.
func (r *Result) Completed() bool {
	return r.Outcome == OutcomeCompleted
}
