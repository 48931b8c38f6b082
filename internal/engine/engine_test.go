package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandkit/bandkit/internal/apperrors"
	"github.com/bandkit/bandkit/internal/domain/report"
	"github.com/bandkit/bandkit/internal/domain/run"
	"github.com/bandkit/bandkit/internal/domain/values"
	"github.com/bandkit/bandkit/internal/format"
	"github.com/bandkit/bandkit/internal/stream"
)

func intPtr(n int) *int { return &n }

// salesReport is the canonical one-group definition used across tests:
// records grouped by region, a group-scoped sum over amt.
func salesReport() *report.Report {
	return &report.Report{
		Metadata: report.Metadata{Name: "sales", Version: "1.0.0", Locale: "en"},
		Groups:   []report.Group{{Name: "region", Key: "record.region"}},
		Variables: []report.Variable{
			{Name: "total", Kind: values.VarSum, ResetScope: values.GroupScope(0), Expression: "record.amt"},
		},
		Bands: []report.Band{
			{Name: "region_header", Kind: values.BandGroupHeader, GroupLevel: intPtr(0),
				Elements: []report.Element{{Name: "region", Source: "record.region"}}},
			{Name: "detail", Kind: values.BandDetail,
				Elements: []report.Element{{Name: "amt", Source: "record.amt"}}},
			{Name: "region_footer", Kind: values.BandGroupFooter, GroupLevel: intPtr(0),
				Elements: []report.Element{{Name: "total", Source: "values.total"}}},
			{Name: "summary", Kind: values.BandSummary,
				Elements: []report.Element{{Name: "total", Source: "values.total"}}},
		},
	}
}

func salesRecords() []stream.Record {
	return []stream.Record{
		{"region": "A", "amt": 10},
		{"region": "A", "amt": 20},
		{"region": "B", "amt": 5},
	}
}

func runReport(t *testing.T, def *report.Report, records []stream.Record) *run.Result {
	t.Helper()
	eng, err := New(def)
	require.NoError(t, err)

	result, err := eng.Run(context.Background(), stream.NewSliceSource(records...), nil, DefaultRunConfig())
	require.NoError(t, err)
	require.Equal(t, run.OutcomeCompleted, result.Outcome)
	return result
}

func Test_Run_GroupedReport(t *testing.T) {
	result := runReport(t, salesReport(), salesRecords())

	type step struct{ band, text string }
	var got []step
	for _, ins := range result.Instructions {
		got = append(got, step{ins.Band, ins.Text})
	}

	assert.Equal(t, []step{
		{"region_header", "A"},
		{"detail", "10"},
		{"detail", "20"},
		{"region_footer", "30"},
		{"region_header", "B"},
		{"detail", "5"},
		{"region_footer", "5"},
		{"summary", "35"},
	}, got)

	assert.Equal(t, 3, result.Summary.Records)
	assert.Empty(t, result.Warnings)
	assert.True(t, result.Completed())
}

func Test_Run_FooterCountMatchesDistinctKeys(t *testing.T) {
	records := []stream.Record{
		{"region": "A", "amt": 1},
		{"region": "B", "amt": 1},
		{"region": "B", "amt": 1},
		{"region": "C", "amt": 1},
	}
	result := runReport(t, salesReport(), records)

	footers := 0
	for _, ins := range result.Instructions {
		if ins.Band == "region_footer" {
			footers++
		}
	}
	assert.Equal(t, 3, footers, "one footer per distinct group key")
}

func Test_Run_FooterSeesPreResetValues(t *testing.T) {
	// The footer of a closing group must resolve against the values the
	// group accumulated, not the freshly reset state the next group opens
	// with.
	result := runReport(t, salesReport(), salesRecords())

	var footerTexts []string
	for _, ins := range result.Instructions {
		if ins.Band == "region_footer" {
			footerTexts = append(footerTexts, ins.Text)
		}
	}
	assert.Equal(t, []string{"30", "5"}, footerTexts)
}

func Test_Run_EmptyStream(t *testing.T) {
	result := runReport(t, salesReport(), nil)

	// No records means no group ever opened: only the summary fires,
	// resolving against identity values.
	require.Len(t, result.Instructions, 1)
	assert.Equal(t, "summary", result.Instructions[0].Band)
	assert.Equal(t, "0", result.Instructions[0].Text)
	assert.Equal(t, 0, result.Summary.Records)
}

func Test_New_UndefinedGroupFooterLevel(t *testing.T) {
	def := salesReport()
	def.Bands[2].GroupLevel = intPtr(2) // only one group level declared

	_, err := New(def)
	require.Error(t, err)

	var defErr *apperrors.DefinitionError
	require.ErrorAs(t, err, &defErr)
	// The definition is rejected before any record is processed, so a
	// caller can never observe partial instructions from it.
}

func Test_New_BadExpressionFailsEagerly(t *testing.T) {
	def := salesReport()
	def.Bands[1].Elements[0].Source = "record.amt +"

	_, err := New(def)
	require.Error(t, err)
	assert.ErrorContains(t, err, "element amt")
}

func Test_Run_FormatFailureKeepsRawValueAndWarnsOnce(t *testing.T) {
	def := salesReport()
	def.FormatSpecs = []format.Spec{{
		Name: "strict",
		// gt against a non-numeric value errors at evaluation time.
		Rules:          []format.Rule{{When: format.Condition{Op: format.OpGreaterThan, Operand: 100}, Pattern: "{value}!"}},
		DefaultPattern: "{value}",
	}}
	def.Bands[0].Elements[0].Format = "strict" // region is a string

	records := []stream.Record{{"region": "A", "amt": 10}}
	result := runReport(t, def, records)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "region_header", result.Warnings[0].Band)
	assert.Equal(t, "region", result.Warnings[0].Element)

	// The instruction still carries the raw stringified value.
	assert.Equal(t, "A", result.Instructions[0].Text)
}

func Test_Run_ElementSourceFailureWarnsAndContinues(t *testing.T) {
	def := salesReport()
	def.Bands[1].Elements[0].Source = `record.amt / record.divisor` // divisor missing

	records := []stream.Record{{"region": "A", "amt": 10}}
	result := runReport(t, def, records)

	assert.NotEmpty(t, result.Warnings)
	assert.Equal(t, run.OutcomeCompleted, result.Outcome)
}

func Test_Run_ParameterValidationFailsBeforeStream(t *testing.T) {
	def := salesReport()
	def.Parameters = []report.Parameter{
		{Name: "min_amount", Type: report.ParamInt, Required: true},
	}

	eng, err := New(def)
	require.NoError(t, err)

	result, err := eng.Run(context.Background(), stream.NewSliceSource(salesRecords()...), nil, DefaultRunConfig())
	require.Error(t, err)

	var paramErr *apperrors.ParameterError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, run.OutcomeFailed, result.Outcome)
	assert.Empty(t, result.Instructions)
}

func Test_Run_ParamsReachExpressions(t *testing.T) {
	def := salesReport()
	def.Parameters = []report.Parameter{
		{Name: "factor", Type: report.ParamInt, Default: 2},
	}
	def.Bands[1].Elements[0].Source = "record.amt * params.factor"

	eng, err := New(def)
	require.NoError(t, err)

	result, err := eng.Run(context.Background(),
		stream.NewSliceSource(stream.Record{"region": "A", "amt": 10}), nil, DefaultRunConfig())
	require.NoError(t, err)

	var detailText string
	for _, ins := range result.Instructions {
		if ins.Band == "detail" {
			detailText = ins.Text
		}
	}
	assert.Equal(t, "20", detailText)
}

func Test_Run_CancellationPreservesPartialOutput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	eng, err := New(salesReport())
	require.NoError(t, err)

	// The source cancels the run after the second record is served.
	served := 0
	src := sourceFunc(func(c context.Context) (stream.Record, error) {
		if served == 2 {
			cancel()
		}
		if err := c.Err(); err != nil {
			return nil, err
		}
		rec := salesRecords()[served]
		served++
		return rec, nil
	})

	result, err := eng.Run(ctx, src, nil, DefaultRunConfig())
	require.Error(t, err)

	var cancelled *apperrors.CancelledError
	require.ErrorAs(t, err, &cancelled)
	assert.Equal(t, run.OutcomeCancelled, result.Outcome)

	// Bands fired before cancellation remain on the result.
	assert.NotEmpty(t, result.Instructions)
}

func Test_Run_StreamErrorFailsRun(t *testing.T) {
	eng, err := New(salesReport())
	require.NoError(t, err)

	boom := errors.New("connection reset")
	src := sourceFunc(func(context.Context) (stream.Record, error) {
		return nil, boom
	})

	result, err := eng.Run(context.Background(), src, nil, DefaultRunConfig())
	require.Error(t, err)

	var streamErr *apperrors.StreamError
	require.ErrorAs(t, err, &streamErr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, run.OutcomeFailed, result.Outcome)
}

func Test_Run_TwoGroupLevels(t *testing.T) {
	def := &report.Report{
		Metadata: report.Metadata{Name: "nested", Version: "1.0.0"},
		Groups: []report.Group{
			{Name: "region", Key: "record.region"},
			{Name: "city", Key: "record.city"},
		},
		Bands: []report.Band{
			{Name: "region_header", Kind: values.BandGroupHeader, GroupLevel: intPtr(0),
				Elements: []report.Element{{Name: "region", Source: "record.region"}}},
			{Name: "city_header", Kind: values.BandGroupHeader, GroupLevel: intPtr(1),
				Elements: []report.Element{{Name: "city", Source: "record.city"}}},
			{Name: "detail", Kind: values.BandDetail,
				Elements: []report.Element{{Name: "amt", Source: "record.amt"}}},
			{Name: "city_footer", Kind: values.BandGroupFooter, GroupLevel: intPtr(1),
				Elements: []report.Element{{Name: "city", Source: "record.city"}}},
			{Name: "region_footer", Kind: values.BandGroupFooter, GroupLevel: intPtr(0),
				Elements: []report.Element{{Name: "region", Source: "record.region"}}},
		},
	}

	records := []stream.Record{
		{"region": "A", "city": "x", "amt": 1},
		{"region": "A", "city": "y", "amt": 2},
		{"region": "B", "city": "y", "amt": 3},
	}
	result := runReport(t, def, records)

	var bands []string
	for _, ins := range result.Instructions {
		bands = append(bands, ins.Band)
	}
	// An outer break closes and reopens the inner group even though the
	// raw city key did not change between the last two records. Footers
	// close innermost first; headers open outermost first.
	assert.Equal(t, []string{
		"region_header", "city_header", "detail",
		"city_footer", "city_header", "detail",
		"city_footer", "region_footer", "region_header", "city_header", "detail",
	}, bands[:11])
}

func Test_Run_ConcurrentRunsShareNoState(t *testing.T) {
	eng, err := New(salesReport())
	require.NoError(t, err)

	done := make(chan *run.Result, 4)
	for i := 0; i < 4; i++ {
		go func() {
			result, err := eng.Run(context.Background(),
				stream.NewSliceSource(salesRecords()...), nil, DefaultRunConfig())
			assert.NoError(t, err)
			done <- result
		}()
	}

	for i := 0; i < 4; i++ {
		result := <-done
		assert.Equal(t, run.OutcomeCompleted, result.Outcome)
		assert.Len(t, result.Instructions, 8)
	}
}

// sourceFunc adapts a function to the stream.Source interface.
type sourceFunc func(context.Context) (stream.Record, error)

func (f sourceFunc) Next(ctx context.Context) (stream.Record, error) {
	return f(ctx)
}
