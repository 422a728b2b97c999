package vector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedVector_AppendAndNull(t *testing.T) {
	v := NewInt64Vector(1, 2, 3)
	require.Equal(t, 3, v.Length())
	require.False(t, v.IsNull(0))

	require.NoError(t, v.UnionNull())
	require.Equal(t, 4, v.Length())
	require.True(t, v.IsNull(3))
}

func TestFixedVector_Filter(t *testing.T) {
	v := NewInt64Vector(10, 20, 30)
	out := v.Filter([]uint8{0, 1, 1}).(*FixedVector)
	require.Equal(t, 2, out.Length())
	got, _ := Int64At(out, 0)
	require.Equal(t, int64(20), got)
}

func TestStringVector_ConstMaterialize(t *testing.T) {
	v := NewConstStringVector([]byte("x"), 3)
	require.Equal(t, 3, v.Length())

	m := v.Materialize().(*StringVector)
	require.Equal(t, 3, m.Length())
	for i := 0; i < 3; i++ {
		require.Equal(t, "x", string(m.At(i)))
	}
}

func TestNullMap_Or(t *testing.T) {
	a := NewNullMap()
	a.Set(1)
	b := NewNullMap()
	b.Set(3)
	a.Or(b)
	require.True(t, a.IsNull(1))
	require.True(t, a.IsNull(3))
	require.False(t, a.IsNull(2))
}
