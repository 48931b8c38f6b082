package report

import "github.com/bandkit/bandkit/internal/domain/values"

// Variable declares a named running aggregate.
//
// A variable's current value is only valid for the scope it has not yet
// been reset from: reading a group-scoped variable after its reset event
// returns the freshly initialized identity value, never stale data.
type Variable struct {
	Name string              `yaml:"name" json:"name"`
	Kind values.VariableKind `yaml:"kind" json:"kind"`

	// ResetScope decides which boundary re-initializes the variable.
	ResetScope values.ScopeLevel `yaml:"reset_scope" json:"reset_scope"`

	// Expression produces the per-record contribution. Ignored for
	// count variables, which always contribute 1.
	Expression string `yaml:"expression,omitempty" json:"expression,omitempty"`
}
