package asof

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arenadata/colhashjoin/pkg/common/rowref"
	"github.com/arenadata/colhashjoin/pkg/container/batch"
)

func ref(row uint32) rowref.RowRef {
	return rowref.RowRef{Block: &batch.Batch{}, Row: row}
}

// scenario 5 (spec.md §8): build {(t=10,A),(t=20,B)} probed at t=15 and
// t=25 under LESS must find the greatest value strictly below the probe
// value.
func TestSeries_Less(t *testing.T) {
	s := NewSeries()
	s.Insert(10, ref(0))
	s.Insert(20, ref(1))

	got, ok := s.Find(Less, 15)
	require.True(t, ok)
	require.Equal(t, uint32(0), got.Row)

	got, ok = s.Find(Less, 25)
	require.True(t, ok)
	require.Equal(t, uint32(1), got.Row)

	_, ok = s.Find(Less, 10)
	require.False(t, ok)
}

func TestSeries_LessOrEquals(t *testing.T) {
	s := NewSeries()
	s.Insert(10, ref(0))
	s.Insert(20, ref(1))

	got, ok := s.Find(LessOrEquals, 10)
	require.True(t, ok)
	require.Equal(t, uint32(0), got.Row)
}

func TestSeries_Greater(t *testing.T) {
	s := NewSeries()
	s.Insert(10, ref(0))
	s.Insert(20, ref(1))

	got, ok := s.Find(Greater, 15)
	require.True(t, ok)
	require.Equal(t, uint32(1), got.Row)

	_, ok = s.Find(Greater, 20)
	require.False(t, ok)
}

func TestSeries_GreaterOrEquals(t *testing.T) {
	s := NewSeries()
	s.Insert(10, ref(0))
	s.Insert(20, ref(1))

	got, ok := s.Find(GreaterOrEquals, 20)
	require.True(t, ok)
	require.Equal(t, uint32(1), got.Row)
}

func TestSeries_DuplicateValues(t *testing.T) {
	s := NewSeries()
	s.Insert(10, ref(0))
	s.Insert(10, ref(1))

	got, ok := s.Find(LessOrEquals, 10)
	require.True(t, ok)
	require.Contains(t, []uint32{0, 1}, got.Row)

	require.Equal(t, 2, s.Len())
}
