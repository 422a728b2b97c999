// Package asof implements the per-bucket ordered time-series structure
// spec.md §3 calls the ASOF series: insert (value, RowRef) pairs, then
// look up the nearest row under one of four inequalities.
//
// The teacher has no ASOF join; this component is supplemented from
// original_source/src/Interpreters/HashJoin.cpp's AsofRowRefs /
// SortedLookupVector per the task's instruction to mine original_source/
// for features the distillation dropped, reimplemented in the pack's idiom
// using github.com/google/btree instead of a hand-rolled sorted vector.
package asof

import (
	"math"

	"github.com/google/btree"

	"github.com/arenadata/colhashjoin/pkg/common/rowref"
)

// Inequality selects which ordering the lookup satisfies (spec.md §6:
// asof_inequality).
type Inequality uint8

const (
	Less Inequality = iota
	LessOrEquals
	Greater
	GreaterOrEquals
)

type entry struct {
	value int64
	seq   int64
	ref   rowref.RowRef
}

func less(a, b entry) bool {
	if a.value != b.value {
		return a.value < b.value
	}
	return a.seq < b.seq
}

// Series is one key-bucket's ASOF index: every build row sharing the
// bucket's equality key, ordered by the ASOF value.
type Series struct {
	tree *btree.BTreeG[entry]
	seq  int64
}

func NewSeries() *Series {
	return &Series{tree: btree.NewG(16, less)}
}

// Insert records (value, ref) into the series (spec.md §4.2 Inserter
// behavior, ASOF: "insert (asof_value, block_ptr, row_index) into it").
func (s *Series) Insert(value int64, ref rowref.RowRef) {
	s.seq++
	s.tree.ReplaceOrInsert(entry{value: value, seq: s.seq, ref: ref})
}

// Find returns the RowRef satisfying ineq against target, or ok=false if
// no row satisfies it (spec.md §8 invariant 3: ASOF monotonicity).
func (s *Series) Find(ineq Inequality, target int64) (rowref.RowRef, bool) {
	var found entry
	ok := false
	stop := func(e entry) bool {
		found, ok = e, true
		return false // first hit is the answer; stop iterating
	}
	switch ineq {
	case Less:
		s.tree.DescendLessOrEqual(entry{value: target, seq: 0}, stop)
	case LessOrEquals:
		s.tree.DescendLessOrEqual(entry{value: target, seq: math.MaxInt64}, stop)
	case Greater:
		s.tree.AscendGreaterOrEqual(entry{value: target, seq: math.MaxInt64}, stop)
	case GreaterOrEquals:
		s.tree.AscendGreaterOrEqual(entry{value: target, seq: 0}, stop)
	}
	if !ok {
		return rowref.RowRef{}, false
	}
	return found.ref, true
}

func (s *Series) Len() int { return s.tree.Len() }
