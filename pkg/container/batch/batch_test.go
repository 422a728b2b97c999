package batch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arenadata/colhashjoin/pkg/container/vector"
)

func ints(vals ...int64) *vector.FixedVector {
	return vector.NewInt64Vector(vals...)
}

func TestBatch_ColumnLookup(t *testing.T) {
	b := New([]string{"a", "b"}, []vector.Vector{ints(1, 2), ints(3, 4)})
	require.Equal(t, 2, b.RowCount())

	v, err := b.Column("b")
	require.NoError(t, err)
	require.Equal(t, 2, v.Length())

	_, err = b.Column("missing")
	require.Error(t, err)
}

func TestBatch_Filter(t *testing.T) {
	b := New([]string{"a"}, []vector.Vector{ints(1, 2, 3)})
	out := b.Filter([]uint8{1, 0, 1})
	require.Equal(t, 2, out.RowCount())
	got, _ := vector.Int64At(out.Vecs[0], 0)
	require.Equal(t, int64(1), got)
	got, _ = vector.Int64At(out.Vecs[0], 1)
	require.Equal(t, int64(3), got)
}

func TestBatch_Replicate(t *testing.T) {
	b := New([]string{"a"}, []vector.Vector{ints(10, 20, 30)})
	out, err := b.Replicate([]int64{2, 3, 5})
	require.NoError(t, err)
	require.Equal(t, 5, out.RowCount())
	got, _ := vector.Int64At(out.Vecs[0], 0)
	require.Equal(t, int64(10), got)
	got, _ = vector.Int64At(out.Vecs[0], 1)
	require.Equal(t, int64(10), got)
	got, _ = vector.Int64At(out.Vecs[0], 2)
	require.Equal(t, int64(20), got)
	got, _ = vector.Int64At(out.Vecs[0], 4)
	require.Equal(t, int64(30), got)
}

func TestBatch_Bytes(t *testing.T) {
	b := New([]string{"a"}, []vector.Vector{ints(1, 2, 3)})
	require.Greater(t, b.Bytes(), int64(0))
}
