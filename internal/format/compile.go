package format

import (
	"fmt"
	"strings"
)

// Compiled is a syntax-validated Spec. Compiled specs are immutable and may
// be evaluated concurrently from multiple runs.
type Compiled struct {
	spec Spec
	ok   bool
}

// Name returns the name of the underlying spec.
func (c *Compiled) Name() string {
	return c.spec.Name
}

// Compile validates a spec and returns its compiled form.
//
// Validation rules:
//   - the default pattern and every rule pattern must be non-empty
//   - patterns must have balanced braces and no double-brace escape
//   - every condition op must be a recognized predicate
//   - every option key must belong to the recognized set
func Compile(spec Spec) (*Compiled, error) {
	var issues []string

	if spec.Name == "" {
		issues = append(issues, "spec name is required")
	}

	if err := validatePattern(spec.DefaultPattern); err != nil {
		issues = append(issues, fmt.Sprintf("default pattern: %v", err))
	}
	if err := validateOptions(spec.DefaultOptions); err != nil {
		issues = append(issues, fmt.Sprintf("default options: %v", err))
	}

	for i, rule := range spec.Rules {
		if err := rule.When.Op.Validate(); err != nil {
			issues = append(issues, fmt.Sprintf("rule %d: %v", i, err))
		}
		if rule.When.Op == OpAlways {
			if _, ok := rule.When.Operand.(bool); !ok {
				issues = append(issues, fmt.Sprintf("rule %d: always condition requires a boolean operand", i))
			}
		}
		if err := validatePattern(rule.Pattern); err != nil {
			issues = append(issues, fmt.Sprintf("rule %d pattern: %v", i, err))
		}
		if err := validateOptions(rule.Options); err != nil {
			issues = append(issues, fmt.Sprintf("rule %d options: %v", i, err))
		}
	}

	if len(issues) > 0 {
		return nil, fmt.Errorf("format spec %q failed to compile:\n  - %s",
			spec.Name, strings.Join(issues, "\n  - "))
	}

	return &Compiled{spec: spec, ok: true}, nil
}

// MustCompile compiles a spec or panics (for tests only).
func MustCompile(spec Spec) *Compiled {
	c, err := Compile(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// validatePattern checks the structural rules shared by all patterns.
func validatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern cannot be empty")
	}
	if strings.Contains(pattern, "{{") || strings.Contains(pattern, "}}") {
		return fmt.Errorf("double-brace escape is not allowed")
	}

	depth := 0
	for _, r := range pattern {
		switch r {
		case '{':
			depth++
			if depth > 1 {
				return fmt.Errorf("nested braces are not allowed")
			}
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced braces")
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced braces")
	}
	return nil
}

// validateOptions rejects option keys outside the recognized set.
func validateOptions(opts Options) error {
	for key := range opts {
		if !recognizedOptionKeys[key] {
			return fmt.Errorf("unrecognized option key: %s", key)
		}
	}
	return nil
}
