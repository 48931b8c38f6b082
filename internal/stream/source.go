// Package stream provides pull-based record sources for report runs.
// Record streams are supplied externally; the engine only pulls.
package stream

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Record is one row of the driving data source.
type Record = map[string]any

// Source is a pull-based record iterator. Next returns io.EOF once the
// stream is exhausted. Pulling the next record is the only potential
// blocking point in a run.
type Source interface {
	Next(ctx context.Context) (Record, error)
}

// SliceSource serves records from memory. Useful for tests and for
// callers that already hold the full record set.
type SliceSource struct {
	records []Record
	pos     int
}

// NewSliceSource creates a source over the given records.
func NewSliceSource(records ...Record) *SliceSource {
	return &SliceSource{records: records}
}

// Next implements Source.
func (s *SliceSource) Next(ctx context.Context) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

// timeoutSource bounds every pull by a per-record timeout so a stalled
// upstream fails the run instead of hanging it indefinitely.
type timeoutSource struct {
	src     Source
	timeout time.Duration
}

// WithTimeout decorates a source with a per-record pull timeout.
// A non-positive timeout returns the source unchanged.
func WithTimeout(src Source, timeout time.Duration) Source {
	if timeout <= 0 {
		return src
	}
	return &timeoutSource{src: src, timeout: timeout}
}

type pullResult struct {
	rec Record
	err error
}

// Next implements Source.
func (s *timeoutSource) Next(ctx context.Context) (Record, error) {
	pullCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan pullResult, 1)
	go func() {
		rec, err := s.src.Next(pullCtx)
		done <- pullResult{rec: rec, err: err}
	}()

	select {
	case res := <-done:
		return res.rec, res.err
	case <-pullCtx.Done():
		if ctx.Err() != nil {
			// Caller cancellation, not a slow source.
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("record pull timed out after %s: %w", s.timeout, pullCtx.Err())
	}
}
