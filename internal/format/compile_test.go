package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Compile_ValidSpec(t *testing.T) {
	compiled, err := Compile(Spec{
		Name: "amount",
		Rules: []Rule{
			{When: Condition{Op: OpGreaterThan, Operand: 1000}, Pattern: "{value}K", Options: Options{"bold": true}},
			{When: Condition{Op: OpAlways, Operand: true}, Pattern: "{value}"},
		},
		DefaultPattern: "{value}",
	})

	require.NoError(t, err)
	assert.Equal(t, "amount", compiled.Name())
}

func Test_Compile_Rejections(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{
			"missing name",
			Spec{DefaultPattern: "{value}"},
			"spec name is required",
		},
		{
			"empty default pattern",
			Spec{Name: "x"},
			"pattern cannot be empty",
		},
		{
			"empty rule pattern",
			Spec{Name: "x", DefaultPattern: "{value}",
				Rules: []Rule{{When: Condition{Op: OpAlways, Operand: true}}}},
			"rule 0 pattern",
		},
		{
			"unbalanced braces",
			Spec{Name: "x", DefaultPattern: "{value"},
			"unbalanced braces",
		},
		{
			"nested braces",
			Spec{Name: "x", DefaultPattern: "{a{b}}"},
			"nested braces",
		},
		{
			"double brace escape",
			Spec{Name: "x", DefaultPattern: "{{value}}"},
			"double-brace escape",
		},
		{
			"unknown op",
			Spec{Name: "x", DefaultPattern: "{value}",
				Rules: []Rule{{When: Condition{Op: "gte", Operand: 1}, Pattern: "{value}"}}},
			"invalid condition op",
		},
		{
			"always without boolean operand",
			Spec{Name: "x", DefaultPattern: "{value}",
				Rules: []Rule{{When: Condition{Op: OpAlways, Operand: "yes"}, Pattern: "{value}"}}},
			"boolean operand",
		},
		{
			"unrecognized option key",
			Spec{Name: "x", DefaultPattern: "{value}",
				DefaultOptions: Options{"colour": "red"}},
			"unrecognized option key: colour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.spec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func Test_Compile_ReportsAllIssues(t *testing.T) {
	_, err := Compile(Spec{
		Rules: []Rule{{When: Condition{Op: "nope"}, Pattern: ""}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spec name is required")
	assert.Contains(t, err.Error(), "invalid condition op")
	assert.Contains(t, err.Error(), "rule 0 pattern")
}

func Test_MustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile(Spec{})
	})
}
