// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vector is the column abstraction of spec.md §3: a typed value
// sequence with O(1) append, null-map extraction, and filter/replicate
// transforms. It is consumed, not specified, by spec.md (§1 Out of scope:
// "generic column implementations"); this package provides the minimal
// concrete set the join engine needs to exercise that abstraction.
package vector

import (
	"github.com/arenadata/colhashjoin/pkg/container/types"
)

// Vector is the column interface every hash-join component programs
// against. Concrete vectors never leak their backing storage; all
// cross-vector moves go through UnionOne/UnionMulti/UnionNull so a
// nullable wrapper can always intercept them.
type Vector interface {
	Type() types.Type
	Length() int
	// IsNull reports whether row i is NULL. Non-nullable vectors always
	// return false.
	IsNull(i int) bool
	// Nullable reports whether the column has been promoted to carry a
	// null-map at all (via EnableNulls), independent of whether any row
	// is currently NULL. Used at construction time to reject ASOF joins
	// over a declared-nullable right key (spec.md §7).
	Nullable() bool
	// UnionOne appends row `row` of `src` to the end of the receiver.
	UnionOne(src Vector, row int) error
	// UnionMulti appends row `row` of `src` to the receiver `times` times
	// (spec.md §3 Column: replicate).
	UnionMulti(src Vector, row int, times int) error
	// UnionNull appends one NULL row.
	UnionNull() error
	// Filter returns a new vector holding only the rows where mask[i]!=0.
	Filter(mask []uint8) Vector
	// Materialize expands any constant/low-cardinality backing form into
	// a full representation (spec.md §3 Column: materialization).
	Materialize() Vector
	// Clone returns an independent empty vector of the same type.
	Clone() Vector
	// Bytes is an approximate size in bytes, used for size_limits
	// accounting (spec.md §6 size_limits).
	Bytes() int64
}

// NullMap marks which rows of a nullable column are NULL. Backed by a
// roaring bitmap (spec.md §3 Nullable column: "null-map is the boolean
// mask") rather than a []bool, matching the pack's roaring dependency
// wired for exactly this concern.
type NullMap struct {
	bits *roaringWrapper
}

func NewNullMap() *NullMap {
	return &NullMap{bits: newRoaringWrapper()}
}

func (n *NullMap) Set(i int)        { n.bits.Add(uint32(i)) }
func (n *NullMap) IsNull(i int) bool { return n.bits.Contains(uint32(i)) }
func (n *NullMap) Len() int          { return int(n.bits.Max1()) }

// Or merges other's bits into n, used when combining several disjuncts'
// null-maps (spec.md §4.2 step 5: "combined null-map").
func (n *NullMap) Or(other *NullMap) {
	n.bits.Or(other.bits)
}

func (n *NullMap) Clone() *NullMap {
	return &NullMap{bits: n.bits.Clone()}
}
