package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandkit/bandkit/internal/domain/report"
	"github.com/bandkit/bandkit/internal/domain/values"
)

func testReport(name string) *report.Report {
	return &report.Report{
		Metadata: report.Metadata{Name: name, Version: "1.0.0"},
		Bands: []report.Band{
			{Name: "detail", Kind: values.BandDetail,
				Elements: []report.Element{{Name: "a", Source: "record.a"}}},
		},
	}
}

func Test_Registry_RegisterAndLookup(t *testing.T) {
	reg := New()

	require.NoError(t, reg.Register(testReport("sales")))

	def, err := reg.Lookup("sales")
	require.NoError(t, err)
	assert.Equal(t, "sales", def.Metadata.Name)

	_, err = reg.Lookup("missing")
	assert.ErrorContains(t, err, "not registered")
}

func Test_Registry_RejectsInvalidDefinition(t *testing.T) {
	reg := New()

	err := reg.Register(&report.Report{})
	require.Error(t, err)
	assert.Empty(t, reg.Names())
}

func Test_Registry_Names(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(testReport("zeta")))
	require.NoError(t, reg.Register(testReport("alpha")))

	assert.Equal(t, []string{"alpha", "zeta"}, reg.Names())
}

func Test_Registry_ConcurrentAccess(t *testing.T) {
	reg := New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := fmt.Sprintf("report-%d", n%4)
			assert.NoError(t, reg.Register(testReport(name)))
			_, _ = reg.Lookup(name)
		}(i)
	}
	wg.Wait()

	assert.Len(t, reg.Names(), 4)
}
