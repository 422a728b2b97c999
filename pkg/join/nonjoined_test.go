package join

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arenadata/colhashjoin/pkg/container/batch"
	"github.com/arenadata/colhashjoin/pkg/container/vector"
)

// scenario 4: RIGHT ALL over build {(1,A),(2,B)} probed by left {1,3};
// build row (2,B) never matches and must surface through the non-joined
// stream with its left column filled as NULL.
func TestHashJoin_RightAll_NonJoinedStream(t *testing.T) {
	cfg := TableJoin{
		Kind:          Right,
		Strictness:    All,
		KeyNamesLeft:  [][]string{{"lk"}},
		KeyNamesRight: [][]string{{"k"}},
	}
	hj, err := New(cfg)
	require.NoError(t, err)

	build := keyBlock("k", "v", []int64{1, 2}, []string{"A", "B"})
	_, err = hj.AddBuildBlock(build, false)
	require.NoError(t, err)

	probe := batch.New([]string{"lk"}, []vector.Vector{vector.NewInt64Vector(1, 3)})
	out, _, err := hj.Join(probe, nil)
	require.NoError(t, err)
	require.Equal(t, 1, out.RowCount())

	stream := hj.CreateNonJoinedStream(probe, 0)
	require.NotNil(t, stream)

	blk, err := stream.Next()
	require.NoError(t, err)
	require.NotNil(t, blk)
	require.Equal(t, 1, blk.RowCount())

	lkIdx := blk.ColumnIndex("lk")
	require.GreaterOrEqual(t, lkIdx, 0)
	require.True(t, blk.Vecs[lkIdx].IsNull(0))

	vIdx := blk.ColumnIndex("v")
	require.GreaterOrEqual(t, vIdx, 0)
	sv := blk.Vecs[vIdx].(*vector.StringVector)
	require.Equal(t, "B", string(sv.At(0)))

	blk2, err := stream.Next()
	require.NoError(t, err)
	require.Nil(t, blk2)
}
