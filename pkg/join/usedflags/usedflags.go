// Package usedflags implements the per-hash-cell atomic used bit spec.md
// §3 and §5 describe, read/written with relaxed atomics except for the
// exactly-once winner race in SetUsedOnce. Every hash cell carries one
// whatever the join kind/strictness; it is not left out for combinations
// that never emit unmatched build rows.
package usedflags

import "sync/atomic"

// Flag is one build-side hash-cell's used bit. It is embedded directly in
// the cell (spec.md §9 notes the teacher-equivalent of a per-cell flag is
// fine as long as "every hash-table cell" ends up with one) rather than
// kept in a separate parallel array, since Go's map-based hash variants
// don't expose stable cell indices to index into a side array.
type Flag struct {
	v atomic.Uint32
}

// SetUsed marks the cell used with a relaxed store (spec.md §5: "Reads
// and writes use relaxed atomics for setUsed").
func (f *Flag) SetUsed() {
	f.v.Store(1)
}

func (f *Flag) IsUsed() bool {
	return f.v.Load() != 0
}

// SetUsedOnce flips the flag from 0 to 1 and reports whether this call
// performed the flip (spec.md §5: "setUsedOnce performs a relaxed load
// fast-path followed by a strong compare-exchange to ensure exactly-one
// winner across threads").
func (f *Flag) SetUsedOnce() bool {
	if f.v.Load() != 0 {
		return false
	}
	return f.v.CompareAndSwap(0, 1)
}
