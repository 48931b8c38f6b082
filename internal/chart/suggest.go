// Package chart ranks plausible chart types for aggregated series. Pure
// heuristics: no state, no side effects, safe for concurrent use.
package chart

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"
)

// Kind is a suggested chart type.
type Kind string

const (
	KindLine      Kind = "line"
	KindArea      Kind = "area"
	KindBar       Kind = "bar"
	KindPie       Kind = "pie"
	KindHistogram Kind = "histogram"
	KindBoxPlot   Kind = "box_plot"
)

// Suggestion is one ranked chart candidate.
type Suggestion struct {
	Kind       Kind    `json:"kind" yaml:"kind"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Rationale  string  `json:"rationale" yaml:"rationale"`
}

// DefaultLimit caps the suggestion list when the caller passes limit <= 0.
const DefaultLimit = 3

var timeLikePattern = regexp.MustCompile(
	`^(\d{4}-\d{2}(-\d{2})?([T ]\d{2}:\d{2}(:\d{2})?)?|\d{2}/\d{2}/\d{4}|Q[1-4][ -]?\d{4}|(19|20)\d{2})$`)

// Suggest inspects each series and ranks chart kinds. Candidates are
// deduplicated by kind keeping the highest confidence, sorted by
// descending confidence (kind name breaks ties for stable output) and
// truncated to limit.
func Suggest(seriesByKey map[string][]any, limit int) []Suggestion {
	if limit <= 0 {
		limit = DefaultLimit
	}

	best := make(map[Kind]Suggestion)
	keep := func(s Suggestion) {
		if cur, ok := best[s.Kind]; !ok || s.Confidence > cur.Confidence {
			best[s.Kind] = s
		}
	}

	for key, series := range seriesByKey {
		if len(series) == 0 {
			continue
		}
		for _, s := range classify(key, series) {
			keep(s)
		}
	}

	out := make([]Suggestion, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Kind < out[j].Kind
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// classify produces the candidates for one series.
func classify(key string, series []any) []Suggestion {
	numeric, allNumeric := numericValues(series)

	switch {
	case timeLike(series) || (allNumeric && timeLikePattern.MatchString(key)):
		return []Suggestion{
			{KindLine, 0.9, fmt.Sprintf("series %q has time-like labels", key)},
			{KindArea, 0.7, fmt.Sprintf("series %q has time-like labels", key)},
		}
	case allStrings(series):
		distinct := distinctStrings(series)
		if distinct <= 10 {
			return []Suggestion{
				{KindBar, 0.9, fmt.Sprintf("series %q has %d distinct categories", key, distinct)},
				{KindPie, 0.8, fmt.Sprintf("series %q has %d distinct categories", key, distinct)},
			}
		}
		return []Suggestion{
			{KindBar, 0.9, fmt.Sprintf("series %q has %d distinct categories, too many for a pie", key, distinct)},
		}
	case allNumeric && valueRange(numeric) > 1000:
		return []Suggestion{
			{KindHistogram, 0.8, fmt.Sprintf("series %q spans a wide numeric range", key)},
			{KindBoxPlot, 0.7, fmt.Sprintf("series %q spans a wide numeric range", key)},
		}
	default:
		return []Suggestion{
			{KindBar, 0.5, fmt.Sprintf("no stronger signal for series %q", key)},
		}
	}
}

// timeLike reports whether every value parses as a time or matches a
// common date/period label shape.
func timeLike(series []any) bool {
	for _, v := range series {
		switch t := v.(type) {
		case time.Time:
		case string:
			if !timeLikePattern.MatchString(t) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func allStrings(series []any) bool {
	for _, v := range series {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}

func distinctStrings(series []any) int {
	seen := make(map[string]struct{}, len(series))
	for _, v := range series {
		if s, ok := v.(string); ok {
			seen[s] = struct{}{}
		}
	}
	return len(seen)
}

func numericValues(series []any) ([]float64, bool) {
	out := make([]float64, 0, len(series))
	for _, v := range series {
		switch n := v.(type) {
		case float64:
			out = append(out, n)
		case float32:
			out = append(out, float64(n))
		case int:
			out = append(out, float64(n))
		case int64:
			out = append(out, float64(n))
		default:
			return nil, false
		}
	}
	return out, true
}

func valueRange(nums []float64) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, n := range nums {
		lo = math.Min(lo, n)
		hi = math.Max(hi, n)
	}
	return hi - lo
}
