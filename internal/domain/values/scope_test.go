package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseScopeLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ScopeLevel
		wantErr bool
	}{
		{"report", "report", ScopeReport, false},
		{"page", "page", ScopePage, false},
		{"outermost group", "group-0", GroupScope(0), false},
		{"nested group", "group-3", GroupScope(3), false},
		{"negative group", "group--1", 0, true},
		{"garbage", "global", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := ParseScopeLevel(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, scope)
				assert.Equal(t, tt.input, scope.String())
			}
		})
	}
}

func Test_ScopeLevel_WithinOrEqual(t *testing.T) {
	tests := []struct {
		name  string
		scope ScopeLevel
		reset ScopeLevel
		want  bool
	}{
		{"group resets on same group", GroupScope(1), GroupScope(1), true},
		{"inner group resets on outer group", GroupScope(2), GroupScope(0), true},
		{"outer group survives inner group reset", GroupScope(0), GroupScope(1), false},
		{"group resets on page", GroupScope(0), ScopePage, true},
		{"page survives group reset", ScopePage, GroupScope(0), false},
		{"report survives page reset", ScopeReport, ScopePage, false},
		{"report resets on report", ScopeReport, ScopeReport, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.WithinOrEqual(tt.reset))
		})
	}
}

func Test_ScopeLevel_IsGroup(t *testing.T) {
	assert.False(t, ScopeReport.IsGroup())
	assert.False(t, ScopePage.IsGroup())
	assert.True(t, GroupScope(0).IsGroup())
	assert.Equal(t, 2, GroupScope(2).GroupLevel())
}
