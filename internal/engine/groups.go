package engine

import (
	"fmt"
	"strconv"
)

// DetectBreaks compares group keys level by level, outermost (level 0)
// first, and returns the levels at which a break occurred in ascending
// order. Once a break occurs at a level, every deeper level is also
// broken even if its raw key value is equal: a change in an outer
// grouping key always invalidates inner scopes.
//
// A nil previous key set means "no previous record", which breaks every
// level so all header bands fire on stream start. Pure function; no side
// effects.
func DetectBreaks(previous, current []any) []int {
	if len(current) == 0 {
		return nil
	}

	breaks := make([]int, 0, len(current))
	broken := previous == nil

	for level := range current {
		if !broken {
			if level >= len(previous) || !keyEqual(previous[level], current[level]) {
				broken = true
			}
		}
		if broken {
			breaks = append(breaks, level)
		}
	}
	return breaks
}

// keyEqual compares two group key values. Numeric values compare
// numerically regardless of the decoder's int/float choice; everything
// else compares by stringified form.
func keyEqual(a, b any) bool {
	af, aok := keyFloat(a)
	bf, bok := keyFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func keyFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
