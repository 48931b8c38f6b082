// Package report contains the report definition aggregate.
// These are pure domain types with NO infrastructure dependencies.
package report

import (
	"github.com/bandkit/bandkit/internal/domain/values"
	"github.com/bandkit/bandkit/internal/format"
)

// Report is the immutable definition of a banded report.
// It is an aggregate root: bands, variables, parameters and format specs
// all live inside it. A Report is created once at definition time and is
// never mutated during a run.
//
// Invariants enforced by Validate:
//   - the band tree is non-empty and contains at least one detail band
//   - group-bound bands reference a declared group level
//   - variable reset scopes reference declared group levels
//   - element format references resolve to declared format specs
//   - names are unique within their kind
type Report struct {
	Metadata    Metadata      `yaml:"report" json:"report"`
	Groups      []Group       `yaml:"groups,omitempty" json:"groups,omitempty"`
	Variables   []Variable    `yaml:"variables,omitempty" json:"variables,omitempty"`
	Parameters  []Parameter   `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	FormatSpecs []format.Spec `yaml:"format_specs,omitempty" json:"format_specs,omitempty"`
	Bands       []Band        `yaml:"bands" json:"bands"`

	// ParameterSchema is an optional JSON Schema applied to the supplied
	// parameter map in addition to the per-parameter constraints.
	ParameterSchema string `yaml:"parameter_schema,omitempty" json:"parameter_schema,omitempty"`
}

// Metadata identifies a report definition.
type Metadata struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Engine is an optional semver constraint on the rendering engine
	// version, checked before a run begins.
	Engine string `yaml:"engine,omitempty" json:"engine,omitempty"`

	// Locale is the default locale for the report; run options override it.
	Locale string `yaml:"locale,omitempty" json:"locale,omitempty"`

	// DataSource names the record stream that drives the report.
	// Record streams are supplied externally; the name is carried for
	// the caller's benefit only.
	DataSource string `yaml:"data_source,omitempty" json:"data_source,omitempty"`

	// Outputs lists the output format names the report supports.
	Outputs []string `yaml:"outputs,omitempty" json:"outputs,omitempty"`
}

// Group declares one grouping level. Groups are ordered outermost first;
// the slice index is the group level.
type Group struct {
	Name string `yaml:"name" json:"name"`

	// Key is the expression producing the group key for a record.
	Key string `yaml:"key" json:"key"`
}

// Element is a leaf display unit inside a band. Positional metadata is
// carried through to render instructions but not laid out by this core.
type Element struct {
	Name   string `yaml:"name" json:"name"`
	Source string `yaml:"source" json:"source"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	X      float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty" json:"y,omitempty"`
	Width  float64 `yaml:"width,omitempty" json:"width,omitempty"`
}

// ApplyDefaults fills definition-level defaults.
func (r *Report) ApplyDefaults() {
	if r.Metadata.Locale == "" {
		r.Metadata.Locale = "en"
	}
	if len(r.Metadata.Outputs) == 0 {
		r.Metadata.Outputs = []string{"json"}
	}
}

// GroupCount returns the number of declared grouping levels.
func (r *Report) GroupCount() int {
	return len(r.Groups)
}

// VariableByName retrieves a variable definition by name.
func (r *Report) VariableByName(name string) *Variable {
	for i := range r.Variables {
		if r.Variables[i].Name == name {
			return &r.Variables[i]
		}
	}
	return nil
}

// FormatSpecByName retrieves a format spec by name.
func (r *Report) FormatSpecByName(name string) *format.Spec {
	for i := range r.FormatSpecs {
		if r.FormatSpecs[i].Name == name {
			return &r.FormatSpecs[i]
		}
	}
	return nil
}

// SupportsOutput returns true if the report declares the output format.
func (r *Report) SupportsOutput(name string) bool {
	for _, out := range r.Metadata.Outputs {
		if out == name {
			return true
		}
	}
	return false
}

// groupLevelDefined reports whether level is a declared group level.
func (r *Report) groupLevelDefined(level int) bool {
	return level >= 0 && level < len(r.Groups)
}

// scopeDefined reports whether a reset scope references declared state.
func (r *Report) scopeDefined(scope values.ScopeLevel) bool {
	if !scope.IsGroup() {
		return true
	}
	return r.groupLevelDefined(scope.GroupLevel())
}
