package dictjoin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arenadata/colhashjoin/pkg/container/batch"
	"github.com/arenadata/colhashjoin/pkg/container/vector"
)

type fakeReader struct {
	calls  int
	result *batch.Batch
	found  []bool
}

func (f *fakeReader) Lookup(probe *batch.Batch, keyCols []string) (*batch.Batch, []bool, error) {
	f.calls++
	return f.result, f.found, nil
}

func TestAdapter_CachesPerProbeBlock(t *testing.T) {
	reader := &fakeReader{
		result: batch.New([]string{"v"}, []vector.Vector{vector.NewInt64Vector(100, 0, 300)}),
		found:  []bool{true, false, true},
	}
	a := NewAdapter(reader, []string{"k"})

	probe := batch.New([]string{"k"}, []vector.Vector{vector.NewInt64Vector(1, 2, 3)})

	require.NoError(t, a.Prepare(probe))
	require.NoError(t, a.Prepare(probe)) // same block: must not re-lookup
	require.Equal(t, 1, reader.calls)

	_, ok := a.FindKey(0)
	require.True(t, ok)
	_, ok = a.FindKey(1)
	require.False(t, ok)

	other := batch.New([]string{"k"}, []vector.Vector{vector.NewInt64Vector(4)})
	require.NoError(t, a.Prepare(other))
	require.Equal(t, 2, reader.calls)
}
