package report

import "fmt"

// Parameter types recognized by the validator.
const (
	ParamString = "string"
	ParamInt    = "int"
	ParamFloat  = "float"
	ParamBool   = "bool"
)

// Parameter declares a named, typed run input with optional constraints.
// Parameters are validated once before a run begins; an invalid value
// rejects the run before any record is processed.
type Parameter struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default  any    `yaml:"default,omitempty" json:"default,omitempty"`

	// Constraints. Length and pattern apply to strings, min/max to numbers.
	MinLength *int     `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength *int     `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	Min       *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}

// ValidateType returns an error if the declared type is not recognized.
func (p *Parameter) ValidateType() error {
	switch p.Type {
	case ParamString, ParamInt, ParamFloat, ParamBool:
		return nil
	default:
		return fmt.Errorf("parameter %s: invalid type %q", p.Name, p.Type)
	}
}
