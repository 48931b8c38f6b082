package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandkit/bandkit/internal/domain/values"
)

func Test_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		lookups []Lookup
		want    string
	}{
		{"first found wins", []Lookup{Fixed("de"), Fixed("fr")}, "de"},
		{"empty sources are skipped", []Lookup{Fixed(""), Fixed("fr")}, "fr"},
		{"all empty falls back to en", []Lookup{Fixed(""), Fixed("")}, "en"},
		{"no sources falls back to en", nil, "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.lookups...))
		})
	}
}

func Test_XTextService_FormatNumber(t *testing.T) {
	svc := NewService()

	tests := []struct {
		name   string
		value  float64
		locale string
		style  string
		want   string
	}{
		{"decimal en", 1234.5, "en", "decimal", "1,234.5"},
		{"decimal de", 1234.5, "de", "decimal", "1.234,5"},
		{"percent", 0.25, "en", "percent", "25%"},
		{"currency usd", 99.9, "en", "currency:USD", "$ 99.90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.FormatNumber(tt.value, tt.locale, tt.style)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_XTextService_FormatNumber_Rejections(t *testing.T) {
	svc := NewService()

	_, err := svc.FormatNumber(1, "not a locale", "decimal")
	assert.ErrorContains(t, err, "unsupported locale")

	_, err = svc.FormatNumber(1, "en", "roman")
	assert.ErrorContains(t, err, "unsupported number style")

	_, err = svc.FormatNumber(1, "en", "currency:ZZZ")
	assert.ErrorContains(t, err, "unsupported currency")
}

func Test_XTextService_TextDirection(t *testing.T) {
	svc := NewService()

	assert.Equal(t, values.DirectionLTR, svc.TextDirection("en"))
	assert.Equal(t, values.DirectionLTR, svc.TextDirection("de-AT"))
	assert.Equal(t, values.DirectionRTL, svc.TextDirection("ar"))
	assert.Equal(t, values.DirectionRTL, svc.TextDirection("he-IL"))
	assert.Equal(t, values.DirectionLTR, svc.TextDirection("not a locale"))
}

func Test_XTextService_Supported(t *testing.T) {
	svc := NewService()
	assert.True(t, svc.Supported("en-GB"))
	assert.False(t, svc.Supported("not a locale"))
}
