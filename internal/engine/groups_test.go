package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DetectBreaks(t *testing.T) {
	tests := []struct {
		name     string
		previous []any
		current  []any
		want     []int
	}{
		{
			"nil previous breaks every level",
			nil,
			[]any{"A", "x"},
			[]int{0, 1},
		},
		{
			"no change",
			[]any{"A", "x"},
			[]any{"A", "x"},
			nil,
		},
		{
			"inner break only",
			[]any{"A", "x"},
			[]any{"A", "y"},
			[]int{1},
		},
		{
			"outer break implies inner even when inner key is equal",
			[]any{"A", "x"},
			[]any{"B", "x"},
			[]int{0, 1},
		},
		{
			"numeric keys compare numerically across decoder types",
			[]any{1, "x"},
			[]any{1.0, "x"},
			nil,
		},
		{
			"empty current",
			[]any{"A"},
			nil,
			nil,
		},
		{
			"shorter previous breaks the extra levels",
			[]any{"A"},
			[]any{"A", "x"},
			[]int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectBreaks(tt.previous, tt.current)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func Test_DetectBreaks_IsPure(t *testing.T) {
	previous := []any{"A", "x"}
	current := []any{"B", "x"}

	first := DetectBreaks(previous, current)
	second := DetectBreaks(previous, current)

	assert.Equal(t, first, second)
	assert.Equal(t, []any{"A", "x"}, previous)
	assert.Equal(t, []any{"B", "x"}, current)
}
