// Package params validates run parameters against a report's parameter
// declarations before any record is processed.
package params

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/bandkit/bandkit/internal/apperrors"
	"github.com/bandkit/bandkit/internal/domain/report"
)

// Validate checks supplied parameters against the declarations and the
// report's optional JSON Schema. It returns the normalized parameter map
// (defaults applied) or an error carrying every violation found, so a
// caller can report all problems at once.
func Validate(defs []report.Parameter, schemaJSON string, supplied map[string]any) (map[string]any, error) {
	var issues []string

	normalized := make(map[string]any, len(supplied))
	for k, v := range supplied {
		normalized[k] = v
	}

	declared := make(map[string]bool, len(defs))
	for _, def := range defs {
		declared[def.Name] = true

		value, present := normalized[def.Name]
		if !present {
			if def.Default != nil {
				normalized[def.Name] = def.Default
				value = def.Default
			} else if def.Required {
				issues = append(issues, fmt.Sprintf("parameter %s is required", def.Name))
				continue
			} else {
				continue
			}
		}

		issues = append(issues, checkValue(def, value)...)
	}

	for name := range supplied {
		if !declared[name] {
			issues = append(issues, fmt.Sprintf("parameter %s is not declared by the report", name))
		}
	}

	if schemaJSON != "" {
		issues = append(issues, checkSchema(schemaJSON, normalized)...)
	}

	if len(issues) > 0 {
		return nil, apperrors.NewParameterError(issues...)
	}
	return normalized, nil
}

// checkValue applies the declared type and constraints to one value.
func checkValue(def report.Parameter, value any) []string {
	var issues []string

	switch def.Type {
	case report.ParamString:
		s, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("parameter %s: expected string, got %T", def.Name, value)}
		}
		if def.MinLength != nil && len(s) < *def.MinLength {
			issues = append(issues, fmt.Sprintf("parameter %s: shorter than minimum length %d", def.Name, *def.MinLength))
		}
		if def.MaxLength != nil && len(s) > *def.MaxLength {
			issues = append(issues, fmt.Sprintf("parameter %s: longer than maximum length %d", def.Name, *def.MaxLength))
		}
		if def.Pattern != "" {
			re, err := regexp.Compile(def.Pattern)
			if err != nil {
				issues = append(issues, fmt.Sprintf("parameter %s: invalid pattern constraint: %v", def.Name, err))
			} else if !re.MatchString(s) {
				issues = append(issues, fmt.Sprintf("parameter %s: value does not match pattern %s", def.Name, def.Pattern))
			}
		}

	case report.ParamInt:
		num, ok := asFloat(value)
		if !ok || num != math.Trunc(num) {
			return []string{fmt.Sprintf("parameter %s: expected integer, got %v", def.Name, value)}
		}
		issues = append(issues, checkRange(def, num)...)

	case report.ParamFloat:
		num, ok := asFloat(value)
		if !ok {
			return []string{fmt.Sprintf("parameter %s: expected number, got %T", def.Name, value)}
		}
		issues = append(issues, checkRange(def, num)...)

	case report.ParamBool:
		if _, ok := value.(bool); !ok {
			return []string{fmt.Sprintf("parameter %s: expected bool, got %T", def.Name, value)}
		}
	}

	return issues
}

func checkRange(def report.Parameter, num float64) []string {
	var issues []string
	if def.Min != nil && num < *def.Min {
		issues = append(issues, fmt.Sprintf("parameter %s: %v is below minimum %v", def.Name, num, *def.Min))
	}
	if def.Max != nil && num > *def.Max {
		issues = append(issues, fmt.Sprintf("parameter %s: %v is above maximum %v", def.Name, num, *def.Max))
	}
	return issues
}

// checkSchema validates the normalized map against the report's JSON Schema.
func checkSchema(schemaJSON string, params map[string]any) []string {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("parameters.json", strings.NewReader(schemaJSON)); err != nil {
		return []string{fmt.Sprintf("parameter schema: %v", err)}
	}
	schema, err := compiler.Compile("parameters.json")
	if err != nil {
		return []string{fmt.Sprintf("parameter schema: %v", err)}
	}

	if err := schema.Validate(toJSONValue(params)); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			var issues []string
			for _, cause := range flattenCauses(ve) {
				issues = append(issues, "parameter schema: "+cause)
			}
			return issues
		}
		return []string{fmt.Sprintf("parameter schema: %v", err)}
	}
	return nil
}

// flattenCauses walks the validation error tree collecting leaf messages.
func flattenCauses(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{fmt.Sprintf("%s: %s", loc, ve.Message)}
	}
	var out []string
	for _, cause := range ve.Causes {
		out = append(out, flattenCauses(cause)...)
	}
	return out
}

// toJSONValue normalizes Go values into the shapes the schema validator
// expects (the same shapes encoding/json produces).
func toJSONValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = toJSONValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = toJSONValue(val)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
