// Package rowref defines the non-owning (block, row) reference spec.md §3
// calls RowRef. It is split out from pkg/common/hashmap and pkg/join so
// both the hash-table variants and the ASOF series can refer to it
// without an import cycle.
package rowref

import "github.com/arenadata/colhashjoin/pkg/container/batch"

// RowRef is a non-owning pointer into a pinned build block. Build blocks
// are immutable once inserted (spec.md §3); a RowRef never outlives the
// join's build-block list that owns Block (spec.md §9: "RowRef holds a non-owning
// pointer into a block owned by the build-side list; no RowRef exists
// without the owning list outliving it").
type RowRef struct {
	Block *batch.Batch
	Row   uint32
}
