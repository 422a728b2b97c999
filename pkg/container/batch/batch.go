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

// Package batch is spec.md §3's Block: an ordered sequence of named,
// equal-length typed columns.
package batch

import (
	"github.com/arenadata/colhashjoin/pkg/common/moerr"
	"github.com/arenadata/colhashjoin/pkg/container/vector"
)

// Batch is a block: Attrs and Vecs are parallel, equal-length slices.
type Batch struct {
	Attrs []string
	Vecs  []vector.Vector
}

func New(attrs []string, vecs []vector.Vector) *Batch {
	return &Batch{Attrs: attrs, Vecs: vecs}
}

// RowCount returns the shared row count across all columns, or 0 for an
// empty batch.
func (b *Batch) RowCount() int {
	if len(b.Vecs) == 0 {
		return 0
	}
	return b.Vecs[0].Length()
}

func (b *Batch) IsEmpty() bool {
	return b.RowCount() == 0
}

// ColumnIndex returns the position of name in Attrs, or -1.
func (b *Batch) ColumnIndex(name string) int {
	for i, a := range b.Attrs {
		if a == name {
			return i
		}
	}
	return -1
}

// Column looks up a column by name (spec.md §4.7 joinGet: "missing column
// in joinGet target" is one of the distinct error tags).
func (b *Batch) Column(name string) (vector.Vector, error) {
	idx := b.ColumnIndex(name)
	if idx < 0 {
		return nil, moerr.NewNoSuchColumn("batch has no column %q", name)
	}
	return b.Vecs[idx], nil
}

// Bytes sums each column's approximate byte size, for size_limits
// accounting (spec.md §6).
func (b *Batch) Bytes() int64 {
	var total int64
	for _, v := range b.Vecs {
		total += v.Bytes()
	}
	return total
}

// Materialize materializes every column's constant/low-cardinality form
// in place (spec.md §4.2 step 2: "Materialize constants in the block").
func (b *Batch) Materialize() {
	for i, v := range b.Vecs {
		b.Vecs[i] = v.Materialize()
	}
}

// Filter selects rows where mask[i]!=0 into a new batch (spec.md §3
// Column: filter).
func (b *Batch) Filter(mask []uint8) *Batch {
	out := &Batch{Attrs: b.Attrs}
	out.Vecs = make([]vector.Vector, len(b.Vecs))
	for i, v := range b.Vecs {
		out.Vecs[i] = v.Filter(mask)
	}
	return out
}

// Replicate repeats row i exactly offsets[i]-offsets[i-1] times (spec.md
// §3 Column: replicate), used for strictness modes that emit multiple
// output rows per probe row (spec.md §4.3.1 need_replication).
func (b *Batch) Replicate(offsets []int64) (*Batch, error) {
	out := &Batch{Attrs: b.Attrs}
	out.Vecs = make([]vector.Vector, len(b.Vecs))
	for vi, v := range b.Vecs {
		nv := v.Clone()
		var prev int64
		for i, off := range offsets {
			times := int(off - prev)
			prev = off
			if times <= 0 {
				continue
			}
			if err := nv.UnionMulti(v, i, times); err != nil {
				return nil, err
			}
		}
		out.Vecs[vi] = nv
	}
	return out, nil
}
