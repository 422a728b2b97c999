package joinpool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arenadata/colhashjoin/pkg/container/batch"
	"github.com/arenadata/colhashjoin/pkg/container/vector"
	"github.com/arenadata/colhashjoin/pkg/join"
)

func probeBlock(vals ...int64) *batch.Batch {
	return batch.New([]string{"k"}, []vector.Vector{vector.NewInt64Vector(vals...)})
}

// ProbeAll falls back to ants.DefaultAntsPoolSize when poolSize<=0. That
// default is a constant in ants, so the test runs the fallback path with
// the library's own value rather than a stubbed one.
func TestProbeAll_FallsBackToDefaultPoolSize(t *testing.T) {
	cfg := join.TableJoin{
		Kind:          join.Inner,
		Strictness:    join.Any,
		KeyNamesLeft:  [][]string{{"k"}},
		KeyNamesRight: [][]string{{"k"}},
	}
	hj, err := join.New(cfg)
	require.NoError(t, err)

	build := batch.New([]string{"k"}, []vector.Vector{vector.NewInt64Vector(1, 2)})
	_, err = hj.AddBuildBlock(build, false)
	require.NoError(t, err)

	probes := []*batch.Batch{probeBlock(1), probeBlock(2), probeBlock(3)}

	results, err := ProbeAll(hj, probes, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		require.Equal(t, i, r.Index)
		require.NoError(t, r.Err)
	}
	require.Equal(t, 1, results[0].Block.RowCount())
	require.Equal(t, 1, results[1].Block.RowCount())
	require.Equal(t, 0, results[2].Block.RowCount())
}
