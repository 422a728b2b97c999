// Package crossjoin is the nested-loop executor of spec.md §4.4: for each
// probe row, emit the cartesian product with every row of every build
// block, bounded by max_joined_block_rows and resumable via a
// continuation when that bound is hit.
//
// Grounded on sql/colexec/loopjoin/join.go (nested loop over build
// batches with a row-count cap and continuation state).
package crossjoin

import (
	"github.com/arenadata/colhashjoin/pkg/container/batch"
	"github.com/arenadata/colhashjoin/pkg/container/vector"
)

// Continuation is spec.md §4.4's ExtraBlockPtr: "(left_position,
// right_block_index)" resume point.
type Continuation struct {
	LeftPos       int
	RightBlockIdx int
	RightRow      int
}

// Executor runs the nested loop. It holds no build-side state itself —
// the caller (HashJoin) passes buildBlocks each call, since cross joins
// never hash anything (spec.md §3: Hash variant CROSS).
type Executor struct {
	maxRows int
}

func New(maxJoinedBlockRows int) *Executor {
	if maxJoinedBlockRows <= 0 {
		maxJoinedBlockRows = 1 << 20
	}
	return &Executor{maxRows: maxJoinedBlockRows}
}

type rightHit struct {
	blk *batch.Batch
	row int
}

// Join emits the cartesian product of probe's rows with buildBlocks' rows
// starting from cont (nil means start from the beginning). It returns the
// joined block and a non-nil continuation if max_joined_block_rows was
// hit before the whole product was emitted.
func (e *Executor) Join(probe *batch.Batch, buildBlocks []*batch.Batch, cont *Continuation) (*batch.Batch, *Continuation, error) {
	var rightAttrs []string
	if len(buildBlocks) > 0 {
		rightAttrs = buildBlocks[0].Attrs
	}

	leftPos, rightBlockIdx, rightRow := 0, 0, 0
	if cont != nil {
		leftPos, rightBlockIdx, rightRow = cont.LeftPos, cont.RightBlockIdx, cont.RightRow
	}

	leftN := probe.RowCount()
	var leftIdx []int
	var hits []rightHit
	emitted := 0

	for i := leftPos; i < leftN; i++ {
		startBlock := 0
		if i == leftPos {
			startBlock = rightBlockIdx
		}
		for bi := startBlock; bi < len(buildBlocks); bi++ {
			blk := buildBlocks[bi]
			startRow := 0
			if i == leftPos && bi == startBlock {
				startRow = rightRow
			}
			for r := startRow; r < blk.RowCount(); r++ {
				if emitted >= e.maxRows {
					out, err := assemble(probe, buildBlocks, rightAttrs, leftIdx, hits)
					return out, &Continuation{LeftPos: i, RightBlockIdx: bi, RightRow: r}, err
				}
				leftIdx = append(leftIdx, i)
				hits = append(hits, rightHit{blk, r})
				emitted++
			}
		}
	}
	out, err := assemble(probe, buildBlocks, rightAttrs, leftIdx, hits)
	return out, nil, err
}

func assemble(probe *batch.Batch, buildBlocks []*batch.Batch, rightAttrs []string, leftIdx []int, hits []rightHit) (*batch.Batch, error) {
	attrs := append(append([]string{}, probe.Attrs...), rightAttrs...)
	out := &batch.Batch{Attrs: attrs}
	out.Vecs = make([]vector.Vector, len(attrs))

	for j, lv := range probe.Vecs {
		nv := lv.Clone()
		for _, i := range leftIdx {
			if err := nv.UnionOne(lv, i); err != nil {
				return nil, err
			}
		}
		out.Vecs[j] = nv
	}
	for j := range rightAttrs {
		col := len(probe.Vecs) + j
		nv := buildBlocks[0].Vecs[j].Clone()
		for _, h := range hits {
			if err := nv.UnionOne(h.blk.Vecs[j], h.row); err != nil {
				return nil, err
			}
		}
		out.Vecs[col] = nv
	}
	return out, nil
}
