package crossjoin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arenadata/colhashjoin/pkg/container/batch"
	"github.com/arenadata/colhashjoin/pkg/container/vector"
)

func intBatch(attr string, vals ...int64) *batch.Batch {
	return batch.New([]string{attr}, []vector.Vector{vector.NewInt64Vector(vals...)})
}

func TestExecutor_FullProduct(t *testing.T) {
	probe := intBatch("l", 1, 2)
	build := []*batch.Batch{intBatch("r", 10, 20, 30)}

	e := New(0)
	out, cont, err := e.Join(probe, build, nil)
	require.NoError(t, err)
	require.Nil(t, cont)
	require.Equal(t, 6, out.RowCount())
}

func TestExecutor_ResumesAtBoundary(t *testing.T) {
	probe := intBatch("l", 1, 2)
	build := []*batch.Batch{intBatch("r", 10, 20, 30)}

	e := New(4)
	out, cont, err := e.Join(probe, build, nil)
	require.NoError(t, err)
	require.NotNil(t, cont)
	require.Equal(t, 4, out.RowCount())

	out2, cont2, err := e.Join(probe, build, cont)
	require.NoError(t, err)
	require.Nil(t, cont2)
	require.Equal(t, 2, out2.RowCount())
}
