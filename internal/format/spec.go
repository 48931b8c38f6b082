// Package format compiles and evaluates conditional formatting rules.
//
// A Spec is an ordered list of (condition, pattern, options) rules plus a
// default. Rules are tried strictly in declaration order and the first
// condition that matches wins. This is a literal first-match-wins semantic:
// an always-true condition placed early shadows every later rule. That is a
// documented footgun, not a bug — rule authors own their rule order.
package format

import "fmt"

// Recognized option keys. An unrecognized key is a compile error so that a
// typo ("colour") fails loudly instead of being silently ignored.
var recognizedOptionKeys = map[string]bool{
	"style":    true,
	"currency": true,
	"decimals": true,
	"prefix":   true,
	"suffix":   true,
	"color":    true,
	"bold":     true,
	"locale":   true,
}

// CondOp identifies a built-in condition predicate.
type CondOp string

const (
	// OpGreaterThan matches when value > operand.
	OpGreaterThan CondOp = "gt"
	// OpLessThan matches when value < operand.
	OpLessThan CondOp = "lt"
	// OpEquals matches when value == operand.
	OpEquals CondOp = "eq"
	// OpNotEquals matches when value != operand.
	OpNotEquals CondOp = "ne"
	// OpAlways matches when the boolean literal operand is true.
	OpAlways CondOp = "always"
)

// Validate returns an error if the op is not a recognized predicate.
func (o CondOp) Validate() error {
	switch o {
	case OpGreaterThan, OpLessThan, OpEquals, OpNotEquals, OpAlways:
		return nil
	default:
		return fmt.Errorf("invalid condition op: %s", o)
	}
}

// Condition is a predicate applied to the value being formatted and a
// constant operand carried in the rule.
type Condition struct {
	Op      CondOp `yaml:"op" json:"op"`
	Operand any    `yaml:"operand" json:"operand"`
}

// Options carries renderer hints resolved alongside the pattern.
type Options map[string]any

// Rule is a single (condition, pattern, options) entry.
type Rule struct {
	When    Condition `yaml:"when" json:"when"`
	Pattern string    `yaml:"pattern" json:"pattern"`
	Options Options   `yaml:"options,omitempty" json:"options,omitempty"`
}

// Spec is a named, ordered rule set plus the default used when no rule matches.
// A Spec must be compiled before it can be evaluated.
type Spec struct {
	Name           string  `yaml:"name" json:"name"`
	Rules          []Rule  `yaml:"rules,omitempty" json:"rules,omitempty"`
	DefaultPattern string  `yaml:"default_pattern" json:"default_pattern"`
	DefaultOptions Options `yaml:"default_options,omitempty" json:"default_options,omitempty"`
}

// EvalContext carries the surrounding state a condition or pattern may need.
// All state is passed in; evaluation never reads ambient globals, which is
// what makes a compiled spec safe to share across concurrent runs.
type EvalContext struct {
	Locale string
	Record map[string]any
	Values map[string]any
}
