package hashmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arenadata/colhashjoin/pkg/common/mpool"
	"github.com/arenadata/colhashjoin/pkg/common/rowref"
	"github.com/arenadata/colhashjoin/pkg/container/batch"
	"github.com/arenadata/colhashjoin/pkg/container/types"
)

func rr(row uint32) rowref.RowRef {
	return rowref.RowRef{Block: &batch.Batch{}, Row: row}
}

func TestChooseVariant(t *testing.T) {
	cases := []struct {
		name string
		keys []types.Type
		want Variant
	}{
		{"single int8", []types.Type{{Kind: types.KindInt8}}, Key8},
		{"single int16", []types.Type{{Kind: types.KindInt16}}, Key16},
		{"single int32", []types.Type{{Kind: types.KindInt32}}, Key32},
		{"single int64", []types.Type{{Kind: types.KindInt64}}, Key64},
		{"single string", []types.Type{{Kind: types.KindString}}, KeyString},
		{"single fixed string", []types.Type{{Kind: types.KindFixedString, Width: 8}}, KeyFixedString},
		{"two int32 fits 128", []types.Type{{Kind: types.KindInt32}, {Kind: types.KindInt32}}, Keys128},
		{"four int64 fits 256", []types.Type{
			{Kind: types.KindInt64}, {Kind: types.KindInt64},
			{Kind: types.KindInt64}, {Kind: types.KindInt64},
		}, Keys256},
		{"mixed string+int falls to hashed", []types.Type{{Kind: types.KindString}, {Kind: types.KindInt64}}, Hashed},
		{"empty keys means cross", []types.Type{}, Cross},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, ChooseVariant(c.keys))
		})
	}
}

func TestNewKeyGetter_RejectsNonKeyingVariant(t *testing.T) {
	_, err := NewKeyGetter(Empty, nil)
	require.Error(t, err)

	_, err = NewKeyGetter(Cross, nil)
	require.Error(t, err)
}

func TestMap_CloneFreshUsed_DoesNotShareUsedFlags(t *testing.T) {
	for _, variant := range []Variant{Key64, Hashed} {
		t.Run(variant.String(), func(t *testing.T) {
			m := NewMap(variant, mpool.New())
			mv := m.FindOrCreate("k")
			mv.InsertSingle(rr(1), false)
			mv.Used.SetUsed()

			clone := m.CloneFreshUsed()
			cmv, ok := clone.Find("k")
			require.True(t, ok)
			require.False(t, cmv.Used.IsUsed())
			require.True(t, mv.Used.IsUsed())

			head, ok := cmv.Head()
			require.True(t, ok)
			require.Equal(t, rr(1).Row, head.Row)
		})
	}
}

func TestMappedValue_SingleVsChain(t *testing.T) {
	var mv MappedValue
	r1 := rr(1)
	r2 := rr(2)

	mv.InsertSingle(r1, false)
	mv.InsertSingle(r2, false) // takeLast=false: first wins
	head, ok := mv.Head()
	require.True(t, ok)
	require.Equal(t, r1, head)

	var chainMV MappedValue
	arena := make([]chainNode, 0, 4)
	alloc := func() *chainNode {
		arena = append(arena, chainNode{})
		return &arena[len(arena)-1]
	}
	chainMV.InsertChain(r1, alloc)
	chainMV.InsertChain(r2, alloc)
	rows := chainMV.Rows()
	require.Equal(t, r1.Row, rows[0].Row)
	require.Equal(t, r2.Row, rows[1].Row)
}
