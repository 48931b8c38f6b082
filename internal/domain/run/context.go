package run

import "github.com/bandkit/bandkit/internal/domain/values"

// Cursor is the layout position used for pagination bookkeeping.
// The visual layout algorithm lives in output drivers; the cursor only
// tracks enough position to decide page breaks.
type Cursor struct {
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Page int     `json:"page" yaml:"page"`
}

// Context is the per-step snapshot threaded through the pipeline.
//
// Every mutating operation returns a new Context value; no operation
// mutates a context in place. Contexts form a single chain per run
// (each step supersedes the previous one), which is what makes the
// plain slice appends below safe: a superseded context is never
// appended to again.
type Context struct {
	Record      map[string]any
	RecordIndex int
	RecordsSeen int
	Band        string
	GroupKeys   []any
	Values      map[string]any
	Locale      string
	Direction   values.Direction
	Cursor      Cursor
	GroupBreaks int

	// Append-only logs.
	Instructions []Instruction
	Warnings     []Warning
}

// NewContext creates the initial context for a run.
func NewContext(locale string, direction values.Direction) Context {
	return Context{
		Locale:    locale,
		Direction: direction,
		Values:    make(map[string]any),
	}
}

// WithRecord returns a context positioned on a record.
func (c Context) WithRecord(record map[string]any, index int) Context {
	c.Record = record
	c.RecordIndex = index
	if index+1 > c.RecordsSeen {
		c.RecordsSeen = index + 1
	}
	return c
}

// WithBand returns a context positioned on a band.
func (c Context) WithBand(name string) Context {
	c.Band = name
	return c
}

// WithGroupKeys returns a context carrying the current group key stack.
func (c Context) WithGroupKeys(keys []any) Context {
	c.GroupKeys = keys
	return c
}

// WithValues returns a context carrying a new variable value snapshot.
// The map is owned by the caller and must not be mutated afterwards.
func (c Context) WithValues(vals map[string]any) Context {
	c.Values = vals
	return c
}

// CountBreaks returns a context with the break counter advanced.
func (c Context) CountBreaks(n int) Context {
	c.GroupBreaks += n
	return c
}

// Append returns a context with an instruction added to the log.
func (c Context) Append(inst Instruction) Context {
	c.Instructions = append(c.Instructions, inst)
	return c
}

// Warn returns a context with a warning recorded.
func (c Context) Warn(w Warning) Context {
	c.Warnings = append(c.Warnings, w)
	return c
}

// Advance returns a context with the cursor moved down by a band height.
// When pageHeight is positive and the band would overflow it, the cursor
// wraps to the top of a new page.
func (c Context) Advance(height, pageHeight float64) Context {
	if pageHeight > 0 && c.Cursor.Y+height > pageHeight {
		c.Cursor.Page++
		c.Cursor.Y = 0
	}
	c.Cursor.Y += height
	return c
}
