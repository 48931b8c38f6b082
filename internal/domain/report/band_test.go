package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandkit/bandkit/internal/domain/values"
)

func intPtr(n int) *int { return &n }

func Test_Flatten_DocumentOrder(t *testing.T) {
	r := &Report{
		Bands: []Band{
			{
				Name: "outer",
				Kind: values.BandGroupHeader,
				Children: []Band{
					{Name: "inner-a", Kind: values.BandDetail},
					{Name: "inner-b", Kind: values.BandDetail},
				},
			},
			{Name: "tail", Kind: values.BandSummary},
		},
	}

	arena := r.Flatten()

	var names []string
	arena.Walk(func(node *BandNode) bool {
		names = append(names, node.Name)
		return true
	})
	assert.Equal(t, []string{"outer", "inner-a", "inner-b", "tail"}, names)
	assert.Len(t, arena.Roots, 2)
}

func Test_Flatten_DeepNesting(t *testing.T) {
	// A pathologically deep tree must flatten without recursion limits.
	leaf := Band{Name: "leaf", Kind: values.BandDetail}
	band := leaf
	for i := 0; i < 5000; i++ {
		band = Band{Name: "level", Kind: values.BandDetail, Children: []Band{band}}
	}
	r := &Report{Bands: []Band{band}}

	arena := r.Flatten()
	assert.Len(t, arena.Nodes, 5001)
}

func Test_Arena_ByKind(t *testing.T) {
	r := &Report{
		Bands: []Band{
			{Name: "d1", Kind: values.BandDetail},
			{Name: "s", Kind: values.BandSummary},
			{Name: "d2", Kind: values.BandDetail},
		},
	}
	arena := r.Flatten()

	ids := arena.ByKind(values.BandDetail)
	require.Len(t, ids, 2)
	assert.Equal(t, "d1", arena.Node(ids[0]).Name)
	assert.Equal(t, "d2", arena.Node(ids[1]).Name)
}

func Test_Arena_GroupBands(t *testing.T) {
	r := &Report{
		Bands: []Band{
			{Name: "h0", Kind: values.BandGroupHeader, GroupLevel: intPtr(0)},
			{Name: "h1", Kind: values.BandGroupHeader, GroupLevel: intPtr(1)},
			{Name: "d", Kind: values.BandDetail},
			{Name: "f1", Kind: values.BandGroupFooter, GroupLevel: intPtr(1)},
		},
	}
	arena := r.Flatten()

	header, ok := arena.GroupHeader(1)
	require.True(t, ok)
	assert.Equal(t, "h1", header.Name)

	_, ok = arena.GroupFooter(0)
	assert.False(t, ok)
}
