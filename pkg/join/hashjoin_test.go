package join

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arenadata/colhashjoin/pkg/container/batch"
	"github.com/arenadata/colhashjoin/pkg/container/vector"
)

func stringVec(vals ...string) *vector.StringVector {
	v := vector.NewStringVector()
	for _, s := range vals {
		v.Append([]byte(s))
	}
	return v
}

func keyBlock(keyName, payloadName string, keys []int64, payload []string) *batch.Batch {
	return batch.New(
		[]string{keyName, payloadName},
		[]vector.Vector{vector.NewInt64Vector(keys...), stringVec(payload...)},
	)
}

// scenario 1: INNER ALL over {(1,A),(2,B),(2,C)} probed by {1,2,3}
// expects three output rows: (1,A), (2,B), (2,C).
func TestHashJoin_InnerAll(t *testing.T) {
	cfg := TableJoin{
		Kind:          Inner,
		Strictness:    All,
		KeyNamesLeft:  [][]string{{"k"}},
		KeyNamesRight: [][]string{{"k"}},
	}
	hj, err := New(cfg)
	require.NoError(t, err)

	build := keyBlock("k", "v", []int64{1, 2, 2}, []string{"A", "B", "C"})
	ok, err := hj.AddBuildBlock(build, false)
	require.NoError(t, err)
	require.True(t, ok)

	probe := batch.New([]string{"k"}, []vector.Vector{vector.NewInt64Vector(1, 2, 3)})
	out, _, err := hj.Join(probe, nil)
	require.NoError(t, err)
	require.Equal(t, 3, out.RowCount())
}

// scenario 2: LEFT ANY over {(1,A),(2,B)} probed by {1,2,3}; row 3 has no
// match and must still appear with a NULL payload.
func TestHashJoin_LeftAny(t *testing.T) {
	cfg := TableJoin{
		Kind:          Left,
		Strictness:    Any,
		KeyNamesLeft:  [][]string{{"k"}},
		KeyNamesRight: [][]string{{"k"}},
	}
	hj, err := New(cfg)
	require.NoError(t, err)

	build := keyBlock("k", "v", []int64{1, 2}, []string{"A", "B"})
	_, err = hj.AddBuildBlock(build, false)
	require.NoError(t, err)

	probe := batch.New([]string{"k"}, []vector.Vector{vector.NewInt64Vector(1, 2, 3)})
	out, _, err := hj.Join(probe, nil)
	require.NoError(t, err)
	require.Equal(t, 3, out.RowCount())

	vIdx := out.ColumnIndex("v")
	require.GreaterOrEqual(t, vIdx, 0)
	require.True(t, out.Vecs[vIdx].IsNull(2))
}

// scenario 3: LEFT ANTI over {(1,A),(2,B)} probed by {1,2,3}; only row 3
// (no match) survives.
func TestHashJoin_LeftAnti(t *testing.T) {
	cfg := TableJoin{
		Kind:          Left,
		Strictness:    Anti,
		KeyNamesLeft:  [][]string{{"k"}},
		KeyNamesRight: [][]string{{"k"}},
	}
	hj, err := New(cfg)
	require.NoError(t, err)

	build := keyBlock("k", "v", []int64{1, 2}, []string{"A", "B"})
	_, err = hj.AddBuildBlock(build, false)
	require.NoError(t, err)

	probe := batch.New([]string{"k"}, []vector.Vector{vector.NewInt64Vector(1, 2, 3)})
	out, _, err := hj.Join(probe, nil)
	require.NoError(t, err)
	require.Equal(t, 1, out.RowCount())
}

// scenario 6: two disjuncts OR'd together; probe row lk=1 matches both
// disjuncts against the same two build rows and must be deduped to one
// emission each, probe row lk=4 matches nothing.
func TestHashJoin_MultiDisjunctDedup(t *testing.T) {
	cfg := TableJoin{
		Kind:          Inner,
		Strictness:    All,
		KeyNamesLeft:  [][]string{{"lk"}, {"lk"}},
		KeyNamesRight: [][]string{{"rk1"}, {"rk2"}},
	}
	hj, err := New(cfg)
	require.NoError(t, err)

	build := batch.New(
		[]string{"rk1", "rk2", "v"},
		[]vector.Vector{
			vector.NewInt64Vector(1, 1),
			vector.NewInt64Vector(1, 1),
			stringVec("A", "B"),
		},
	)
	_, err = hj.AddBuildBlock(build, false)
	require.NoError(t, err)

	probe := batch.New([]string{"lk"}, []vector.Vector{vector.NewInt64Vector(1, 4)})
	out, _, err := hj.Join(probe, nil)
	require.NoError(t, err)
	require.Equal(t, 2, out.RowCount())
}

func TestHashJoin_AsofRejectsSingleKey(t *testing.T) {
	_, err := New(TableJoin{
		Kind:          Inner,
		Strictness:    Asof,
		KeyNamesLeft:  [][]string{{"k"}},
		KeyNamesRight: [][]string{{"k"}},
	})
	require.Error(t, err)
}

// ASOF over a right key declared nullable in RightSampleBlock must be
// rejected at New, before any build row is ever inserted.
func TestHashJoin_AsofRejectsNullableRightKey(t *testing.T) {
	nullableT := vector.NewInt64Vector()
	nullableT.EnableNulls()
	sample := batch.New([]string{"k", "t"}, []vector.Vector{vector.NewInt64Vector(), nullableT})

	_, err := New(TableJoin{
		Kind:             Inner,
		Strictness:       Asof,
		KeyNamesLeft:     [][]string{{"k", "t"}},
		KeyNamesRight:    [][]string{{"k", "t"}},
		RightSampleBlock: sample,
	})
	require.Error(t, err)
}

func TestHashJoin_JoinGet_WrongKindRaisesIncompatibleJoinType(t *testing.T) {
	cfg := TableJoin{
		Kind:          Inner,
		Strictness:    Any,
		KeyNamesLeft:  [][]string{{"k"}},
		KeyNamesRight: [][]string{{"k"}},
	}
	hj, err := New(cfg)
	require.NoError(t, err)

	_, err = hj.JoinGet([]vector.Vector{vector.NewInt64Vector(1)})
	require.Error(t, err)
}

func TestHashJoin_JoinGet_TypeMismatch(t *testing.T) {
	cfg := TableJoin{
		Kind:          Left,
		Strictness:    Any,
		KeyNamesLeft:  [][]string{{"lk"}},
		KeyNamesRight: [][]string{{"rk"}},
	}
	hj, err := New(cfg)
	require.NoError(t, err)

	build := keyBlock("rk", "v", []int64{1, 2}, []string{"A", "B"})
	_, err = hj.AddBuildBlock(build, false)
	require.NoError(t, err)

	_, err = hj.JoinGet([]vector.Vector{stringVec("1")})
	require.Error(t, err)
}

// ReuseJoinedData must give the recipient its own used-flags: a row the
// donor's probe already marked used must still surface as unmatched
// through the recipient's own RIGHT non-joined stream.
func TestHashJoin_ReuseJoinedData_FreshUsedFlags(t *testing.T) {
	cfg := TableJoin{
		Kind:          Right,
		Strictness:    Any,
		KeyNamesLeft:  [][]string{{"lk"}},
		KeyNamesRight: [][]string{{"rk"}},
	}
	donor, err := New(cfg)
	require.NoError(t, err)

	build := keyBlock("rk", "v", []int64{1, 2}, []string{"A", "B"})
	_, err = donor.AddBuildBlock(build, false)
	require.NoError(t, err)

	probe := batch.New([]string{"lk"}, []vector.Vector{vector.NewInt64Vector(1)})
	_, _, err = donor.Join(probe, nil)
	require.NoError(t, err)

	recipient, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, recipient.ReuseJoinedData(donor))

	stream := recipient.CreateNonJoinedStream(probe, 0)
	require.NotNil(t, stream)
	out, err := stream.Next()
	require.NoError(t, err)
	require.NotNil(t, out)
	// row rk=1 was already marked used by the donor's own probe; the
	// recipient's fresh used-flags must still report it unmatched here.
	require.Equal(t, 2, out.RowCount())
}

func TestHashJoin_SizeLimitsThrow(t *testing.T) {
	cfg := TableJoin{
		Kind:          Inner,
		Strictness:    Any,
		KeyNamesLeft:  [][]string{{"k"}},
		KeyNamesRight: [][]string{{"k"}},
		SizeLimits:    SizeLimits{MaxRows: 1, Throw: true},
	}
	hj, err := New(cfg)
	require.NoError(t, err)

	build := keyBlock("k", "v", []int64{1, 2}, []string{"A", "B"})
	ok, err := hj.AddBuildBlock(build, true)
	require.Error(t, err)
	require.False(t, ok)
}
