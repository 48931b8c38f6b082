package engine

import (
	"fmt"
	"math"

	"github.com/bandkit/bandkit/internal/domain/report"
	"github.com/bandkit/bandkit/internal/domain/values"
)

// Reducer folds a custom variable's per-record contribution into its
// accumulated value. The accumulated value starts at nil.
type Reducer func(acc, contribution any) any

// cell is the internal accumulator state for one variable at one scope.
type cell struct {
	kind   values.VariableKind
	sum    float64
	count  int
	bound  float64 // current min or max
	custom any
}

// State carries every variable at two scopes: the scoped cells reset at
// group and page boundaries per each variable's reset scope, while the
// report cells accumulate across the whole run for the summary band.
// States are immutable from the caller's perspective: Apply and
// ResetScope return new values.
type State struct {
	scoped map[string]cell
	report map[string]cell
}

// Accumulator maintains the running aggregates declared by a report.
type Accumulator struct {
	defs     []report.Variable
	cache    *programCache
	reducers map[string]Reducer
}

// newAccumulator wires variable definitions to the shared expression cache.
// Every custom variable must have a registered reducer.
func newAccumulator(defs []report.Variable, cache *programCache, reducers map[string]Reducer) (*Accumulator, error) {
	for _, def := range defs {
		if def.Kind == values.VarCustom {
			if _, ok := reducers[def.Name]; !ok {
				return nil, fmt.Errorf("variable %s: no reducer registered for custom variable", def.Name)
			}
		}
	}
	return &Accumulator{defs: defs, cache: cache, reducers: reducers}, nil
}

// Identity returns the initial state with every variable at its identity
// value: 0 for sum/count/average, the infinity sentinel for min/max
// (replaced on the first real value), nil for custom.
func (a *Accumulator) Identity() State {
	scoped := make(map[string]cell, len(a.defs))
	rep := make(map[string]cell, len(a.defs))
	for _, def := range a.defs {
		scoped[def.Name] = identityCell(def.Kind)
		rep[def.Name] = identityCell(def.Kind)
	}
	return State{scoped: scoped, report: rep}
}

func identityCell(kind values.VariableKind) cell {
	c := cell{kind: kind}
	switch kind {
	case values.VarMin:
		c.bound = math.Inf(1)
	case values.VarMax:
		c.bound = math.Inf(-1)
	}
	return c
}

// Apply folds each variable's contribution for a record into a new state.
// The input state is not mutated.
func (a *Accumulator) Apply(state State, env map[string]any) (State, error) {
	next := cloneState(state)

	for _, def := range a.defs {
		var contribution any
		if def.Kind != values.VarCount {
			var err error
			contribution, err = a.cache.run(def.Expression, env)
			if err != nil {
				return State{}, fmt.Errorf("variable %s: %w", def.Name, err)
			}
		}

		for _, cells := range []map[string]cell{next.scoped, next.report} {
			c, err := fold(cells[def.Name], def, contribution, a.reducers)
			if err != nil {
				return State{}, err
			}
			cells[def.Name] = c
		}
	}
	return next, nil
}

// fold applies one contribution to one cell.
func fold(c cell, def report.Variable, contribution any, reducers map[string]Reducer) (cell, error) {
	switch def.Kind {
	case values.VarCount:
		c.count++
	case values.VarCustom:
		c.custom = reducers[def.Name](c.custom, contribution)
	default:
		num, ok := keyFloat(contribution)
		if !ok {
			return cell{}, fmt.Errorf("variable %s: expression produced non-numeric %T", def.Name, contribution)
		}
		switch def.Kind {
		case values.VarSum:
			c.sum += num
		case values.VarAverage:
			c.sum += num
			c.count++
		case values.VarMin:
			if num < c.bound {
				c.bound = num
			}
		case values.VarMax:
			if num > c.bound {
				c.bound = num
			}
		}
	}
	return c, nil
}

// ResetScope re-initializes every scoped variable whose reset scope
// matches the given level or is narrower. Report-level cells are never
// reset mid-run. The input state is not mutated, and resetting an
// already-reset scope is idempotent.
func (a *Accumulator) ResetScope(state State, level values.ScopeLevel) State {
	next := cloneState(state)
	for _, def := range a.defs {
		if def.ResetScope.WithinOrEqual(level) {
			next.scoped[def.Name] = identityCell(def.Kind)
		}
	}
	return next
}

// Snapshot exposes the scoped value of every variable for expression
// environments and element resolution.
func (a *Accumulator) Snapshot(state State) map[string]any {
	return snapshot(state.scoped)
}

// ReportSnapshot exposes report-level totals, used by summary bands.
func (a *Accumulator) ReportSnapshot(state State) map[string]any {
	return snapshot(state.report)
}

func snapshot(cells map[string]cell) map[string]any {
	out := make(map[string]any, len(cells))
	for name, c := range cells {
		out[name] = c.value()
	}
	return out
}

func cloneState(state State) State {
	next := State{
		scoped: make(map[string]cell, len(state.scoped)),
		report: make(map[string]cell, len(state.report)),
	}
	for name, c := range state.scoped {
		next.scoped[name] = c
	}
	for name, c := range state.report {
		next.report[name] = c
	}
	return next
}

// value exposes a cell's externally visible value.
func (c cell) value() any {
	switch c.kind {
	case values.VarSum:
		return c.sum
	case values.VarCount:
		return c.count
	case values.VarAverage:
		if c.count == 0 {
			return 0.0
		}
		return c.sum / float64(c.count)
	case values.VarMin, values.VarMax:
		return c.bound
	case values.VarCustom:
		return c.custom
	default:
		return nil
	}
}
