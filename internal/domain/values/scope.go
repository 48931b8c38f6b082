package values

import (
	"fmt"
	"strconv"
	"strings"
)

// ScopeLevel identifies how far a variable reset reaches.
// Report is the widest scope, page sits inside it, and group scopes are
// numbered from 0 (outermost group) inward. Resetting a scope re-initializes
// every variable whose scope matches it or is narrower.
type ScopeLevel int

const (
	// ScopeReport resets only at end of run (never mid-stream).
	ScopeReport ScopeLevel = -2
	// ScopePage resets on page breaks.
	ScopePage ScopeLevel = -1
)

// GroupScope returns the scope bound to the given group level (0 = outermost).
func GroupScope(level int) ScopeLevel {
	return ScopeLevel(level)
}

// IsGroup returns true if the scope is bound to a group level.
func (s ScopeLevel) IsGroup() bool {
	return s >= 0
}

// GroupLevel returns the group level this scope binds to.
// Only meaningful when IsGroup is true.
func (s ScopeLevel) GroupLevel() int {
	return int(s)
}

// WithinOrEqual reports whether s is the same scope as other or narrower.
// A reset at scope L re-initializes every variable for which
// variable.ResetScope.WithinOrEqual(L) holds.
func (s ScopeLevel) WithinOrEqual(other ScopeLevel) bool {
	return s >= other
}

// String renders the scope in its canonical form ("report", "page", "group-N").
func (s ScopeLevel) String() string {
	switch {
	case s == ScopeReport:
		return "report"
	case s == ScopePage:
		return "page"
	default:
		return fmt.Sprintf("group-%d", int(s))
	}
}

// ParseScopeLevel parses the canonical scope form.
func ParseScopeLevel(raw string) (ScopeLevel, error) {
	switch raw {
	case "report":
		return ScopeReport, nil
	case "page":
		return ScopePage, nil
	}
	if rest, ok := strings.CutPrefix(raw, "group-"); ok {
		level, err := strconv.Atoi(rest)
		if err != nil || level < 0 {
			return 0, fmt.Errorf("invalid group scope: %s", raw)
		}
		return GroupScope(level), nil
	}
	return 0, fmt.Errorf("invalid scope level: %s", raw)
}

// MarshalYAML implements yaml.Marshaler for definition round-trips.
func (s ScopeLevel) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *ScopeLevel) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseScopeLevel(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
