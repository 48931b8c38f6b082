package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandkit/bandkit/internal/apperrors"
	"github.com/bandkit/bandkit/internal/domain/report"
)

func intPtr(n int) *int         { return &n }
func floatPtr(f float64) *float64 { return &f }

func Test_Validate_AppliesDefaults(t *testing.T) {
	defs := []report.Parameter{
		{Name: "region", Type: report.ParamString, Default: "EMEA"},
		{Name: "limit", Type: report.ParamInt, Default: 10},
	}

	normalized, err := Validate(defs, "", map[string]any{"limit": 25})
	require.NoError(t, err)

	assert.Equal(t, "EMEA", normalized["region"])
	assert.Equal(t, 25, normalized["limit"])
}

func Test_Validate_RequiredMissing(t *testing.T) {
	defs := []report.Parameter{
		{Name: "region", Type: report.ParamString, Required: true},
	}

	_, err := Validate(defs, "", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "region is required")
}

func Test_Validate_UndeclaredParameterRejected(t *testing.T) {
	_, err := Validate(nil, "", map[string]any{"mystery": 1})
	require.Error(t, err)
	assert.ErrorContains(t, err, "mystery is not declared")
}

func Test_Validate_TypeChecks(t *testing.T) {
	tests := []struct {
		name    string
		def     report.Parameter
		value   any
		wantErr string
	}{
		{"string ok", report.Parameter{Name: "p", Type: report.ParamString}, "x", ""},
		{"string wrong type", report.Parameter{Name: "p", Type: report.ParamString}, 5, "expected string"},
		{"int ok", report.Parameter{Name: "p", Type: report.ParamInt}, 5, ""},
		{"int accepts integral float", report.Parameter{Name: "p", Type: report.ParamInt}, 5.0, ""},
		{"int rejects fraction", report.Parameter{Name: "p", Type: report.ParamInt}, 5.5, "expected integer"},
		{"float ok", report.Parameter{Name: "p", Type: report.ParamFloat}, 5.5, ""},
		{"float wrong type", report.Parameter{Name: "p", Type: report.ParamFloat}, "5.5", "expected number"},
		{"bool ok", report.Parameter{Name: "p", Type: report.ParamBool}, true, ""},
		{"bool wrong type", report.Parameter{Name: "p", Type: report.ParamBool}, "true", "expected bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate([]report.Parameter{tt.def}, "", map[string]any{"p": tt.value})
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func Test_Validate_Constraints(t *testing.T) {
	tests := []struct {
		name    string
		def     report.Parameter
		value   any
		wantErr string
	}{
		{
			"min length",
			report.Parameter{Name: "p", Type: report.ParamString, MinLength: intPtr(3)},
			"ab", "shorter than minimum length",
		},
		{
			"max length",
			report.Parameter{Name: "p", Type: report.ParamString, MaxLength: intPtr(3)},
			"abcd", "longer than maximum length",
		},
		{
			"pattern mismatch",
			report.Parameter{Name: "p", Type: report.ParamString, Pattern: "^[A-Z]+$"},
			"abc", "does not match pattern",
		},
		{
			"pattern match",
			report.Parameter{Name: "p", Type: report.ParamString, Pattern: "^[A-Z]+$"},
			"ABC", "",
		},
		{
			"below min",
			report.Parameter{Name: "p", Type: report.ParamInt, Min: floatPtr(1)},
			0, "below minimum",
		},
		{
			"above max",
			report.Parameter{Name: "p", Type: report.ParamFloat, Max: floatPtr(10)},
			10.5, "above maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate([]report.Parameter{tt.def}, "", map[string]any{"p": tt.value})
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func Test_Validate_CollectsAllIssues(t *testing.T) {
	defs := []report.Parameter{
		{Name: "region", Type: report.ParamString, Required: true},
		{Name: "limit", Type: report.ParamInt},
	}

	_, err := Validate(defs, "", map[string]any{"limit": "ten", "extra": 1})
	require.Error(t, err)

	var paramErr *apperrors.ParameterError
	require.ErrorAs(t, err, &paramErr)
	assert.Len(t, paramErr.Issues, 3)
}

func Test_Validate_JSONSchema(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {
			"limit": {"type": "integer", "maximum": 100}
		}
	}`
	defs := []report.Parameter{{Name: "limit", Type: report.ParamInt}}

	_, err := Validate(defs, schema, map[string]any{"limit": 50})
	assert.NoError(t, err)

	_, err = Validate(defs, schema, map[string]any{"limit": 500})
	require.Error(t, err)
	assert.ErrorContains(t, err, "parameter schema")
}

func Test_Validate_InvalidSchemaIsAnIssue(t *testing.T) {
	_, err := Validate(nil, `{"type": 42}`, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "parameter schema")
}
