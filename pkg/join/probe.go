package join

import (
	"go.uber.org/zap"

	"github.com/arenadata/colhashjoin/pkg/common/hashmap"
	"github.com/arenadata/colhashjoin/pkg/common/moerr"
	"github.com/arenadata/colhashjoin/pkg/common/rowref"
	"github.com/arenadata/colhashjoin/pkg/container/batch"
	"github.com/arenadata/colhashjoin/pkg/container/vector"
	"github.com/arenadata/colhashjoin/pkg/join/crossjoin"
	"github.com/arenadata/colhashjoin/pkg/logutil"
)

// addedColumns is spec.md §4.3 step 2's accumulator: builder vectors for
// every build-side column that isn't already present (by name) in the
// probe block, plus the ASOF right key when applicable. Exactly one row
// is appended per probe row, except under need_replication where a
// probe row may contribute zero rows (a miss without add_missing, or an
// Any/Semi RIGHT hit on a cell already claimed), one default row (a miss
// with add_missing) or many (ALL / Any-Semi-RIGHT chain expansion) rows.
type addedColumns struct {
	names    []string
	builders []vector.Vector
}

// addedColumnSchema computes the build-side columns the output gains,
// given the probe side's own attribute names. A build column is dropped
// only when its name collides with a probe attribute — almost always a
// join key whose left and right names are identical, in which case the
// probe's own column already carries that value into the output and a
// second copy under the same name would be an ambiguous duplicate
// attribute. A right key column named differently from its left
// counterpart is kept like any other added column: HashJoin.cpp's
// AddedColumns reconstructs such a requested key column from the
// matching build-side cell, which here falls out for free, since the
// build block already stores that key under its own name — appendRow
// reads the real value for a hit, appendDefault nulls it for a miss,
// exactly the "nullability correction at masked positions" the source
// applies. The ASOF inequality column is always kept regardless of any
// collision, since its right-side value is never equal to the left's.
func (h *HashJoin) addedColumnSchema(probeAttrs []string) ([]string, []vector.Vector) {
	if len(h.buildBlocks) == 0 {
		return nil, nil
	}
	proto := h.buildBlocks[0]
	probeSet := make(map[string]bool, len(probeAttrs))
	for _, a := range probeAttrs {
		probeSet[a] = true
	}
	var names []string
	var vecs []vector.Vector
	for i, a := range proto.Attrs {
		if a != h.asofKeyName && probeSet[a] {
			continue
		}
		names = append(names, a)
		vecs = append(vecs, proto.Vecs[i])
	}
	return names, vecs
}

func newAddedColumns(names []string, protoVecs []vector.Vector) *addedColumns {
	ac := &addedColumns{names: names, builders: make([]vector.Vector, len(protoVecs))}
	for i, p := range protoVecs {
		ac.builders[i] = p.Clone()
	}
	return ac
}

// enableNullable corrects a column's nullability per spec.md §6's
// force_nullable_left/right (grounded on HashJoin.cpp's
// correctNullability: "if (nullable) convertColumnToNullable(column)"),
// promoting a vector to nullable in place regardless of whether any row
// actually ends up NULL.
func enableNullable(v vector.Vector) {
	if n, ok := v.(interface{ EnableNulls() }); ok {
		n.EnableNulls()
	}
}

func enableNullableAll(vecs []vector.Vector) {
	for _, v := range vecs {
		enableNullable(v)
	}
}

func (ac *addedColumns) appendRow(ref rowref.RowRef) error {
	for i, name := range ac.names {
		col, err := ref.Block.Column(name)
		if err != nil {
			return err
		}
		if err := ac.builders[i].UnionOne(col, int(ref.Row)); err != nil {
			return err
		}
	}
	return nil
}

func (ac *addedColumns) appendDefault() error {
	for _, b := range ac.builders {
		if err := b.UnionNull(); err != nil {
			return err
		}
	}
	return nil
}

// Join runs the prober (spec.md §4.3) for normal joins, or delegates to
// the cross-join executor / dictionary adapter for those modes.
func (h *HashJoin) Join(probe *batch.Batch, cont *crossjoin.Continuation) (*batch.Batch, *crossjoin.Continuation, error) {
	h.probeStarted.Store(true)
	logutil.Debug("probing block",
		zap.Int("rows", probe.RowCount()),
		zap.String("kind", h.cfg.Kind.String()),
		zap.String("strictness", h.cfg.Strictness.String()))

	var out *batch.Batch
	var next *crossjoin.Continuation
	var err error
	switch {
	case h.crossExec != nil:
		out, next, err = h.crossExec.Join(probe, h.buildBlocks, cont)
	case h.dictAdapter != nil:
		out, err = h.probeDict(probe)
	default:
		out, err = h.probeHash(probe)
	}
	if err != nil {
		logutil.Error("probe failed", zap.Error(err))
	}
	return out, next, err
}

func (h *HashJoin) probeDict(probe *batch.Batch) (*batch.Batch, error) {
	keyCols := h.cfg.KeyNamesRight[0]
	if err := h.dictAdapter.Prepare(probe); err != nil {
		return nil, err
	}
	result := h.dictAdapter.Result()
	names, protoVecs := result.Attrs, result.Vecs
	ac := newAddedColumns(names, protoVecs)
	if h.cfg.ForceNullableRight {
		enableNullableAll(ac.builders)
	}
	if h.cfg.ForceNullableLeft {
		enableNullableAll(probe.Vecs)
	}

	rows := probe.RowCount()
	filter := make([]uint8, rows)
	for i := 0; i < rows; i++ {
		pos, found := h.dictAdapter.FindKey(i)
		switch {
		case found:
			if err := ac.appendRow(rowref.RowRef{Block: result, Row: uint32(pos)}); err != nil {
				return nil, err
			}
			if h.feat.isSemi {
				filter[i] = 1
			} else if !h.feat.isAnti {
				filter[i] = 1
			}
		case h.feat.isAnti:
			filter[i] = 1
			if err := ac.appendDefault(); err != nil {
				return nil, err
			}
		default:
			if h.feat.addMissing {
				filter[i] = 1
				if err := ac.appendDefault(); err != nil {
					return nil, err
				}
			} else if err := ac.appendDefault(); err != nil {
				return nil, err
			}
		}
	}
	_ = keyCols
	return h.assemble(probe, ac, filter, nil, true)
}

func (h *HashJoin) probeHash(probe *batch.Batch) (*batch.Batch, error) {
	probe.Materialize()

	disjuncts := h.cfg.disjuncts()
	leftCols := make([][]vector.Vector, disjuncts)
	getters := make([]hashmap.KeyGetter, disjuncts)
	var asofProbeCol vector.Vector

	for d := 0; d < disjuncts; d++ {
		keys := h.cfg.KeyNamesLeft[d]
		eqKeys := keys
		if h.feat.isAsof {
			eqKeys = keys[:len(keys)-1]
		}
		cols := make([]vector.Vector, len(eqKeys))
		for i, name := range eqKeys {
			v, err := probe.Column(name)
			if err != nil {
				return nil, err
			}
			cols[i] = v
		}
		leftCols[d] = cols
		getter, err := hashmap.NewKeyGetter(h.variant, cols)
		if err != nil {
			return nil, err
		}
		getters[d] = getter

		if h.feat.isAsof && asofProbeCol == nil {
			v, err := probe.Column(keys[len(keys)-1])
			if err != nil {
				return nil, err
			}
			asofProbeCol = v
		}
	}

	names, protoVecs := h.addedColumnSchema(probe.Attrs)
	ac := newAddedColumns(names, protoVecs)
	if h.cfg.ForceNullableRight {
		enableNullableAll(ac.builders)
	}
	if h.cfg.ForceNullableLeft {
		enableNullableAll(probe.Vecs)
	}

	rows := probe.RowCount()
	filter := make([]uint8, rows)
	var offsets []int64
	if h.feat.needReplication {
		offsets = make([]int64, rows)
	}
	var current int64

	for i := 0; i < rows; i++ {
		matchedHit := false
		emitted := 0
		var known map[rowref.RowRef]struct{}
		if disjuncts > 1 {
			known = make(map[rowref.RowRef]struct{})
		}

	disjunctLoop:
		for d := 0; d < disjuncts; d++ {
			key, ok := getters[d].Key(leftCols[d], i)
			if !ok {
				continue
			}
			mv, found := h.maps[d].Find(key)
			if !found {
				continue
			}

			switch {
			case h.feat.isAsof:
				val, ok := vector.Int64At(asofProbeCol, i)
				if !ok {
					break
				}
				ref, ok := mv.Asof.Find(h.cfg.AsofInequality, val)
				if ok {
					matchedHit = true
					filter[i] = 1
					mv.Used.SetUsed()
					if err := ac.appendRow(ref); err != nil {
						return nil, err
					}
					emitted++
				}

			case h.feat.isAll:
				matchedHit = true
				filter[i] = 1
				mv.Used.SetUsed()
				for _, ref := range mv.Rows() {
					if !claimOnce(known, ref) {
						continue
					}
					if err := ac.appendRow(ref); err != nil {
						return nil, err
					}
					emitted++
				}

			case h.feat.needReplication && (h.feat.right || h.feat.isSemi):
				if mv.Used.SetUsedOnce() {
					matchedHit = true
					for _, ref := range mv.Rows() {
						if !claimOnce(known, ref) {
							continue
						}
						if err := ac.appendRow(ref); err != nil {
							return nil, err
						}
						emitted++
					}
				}

			case h.feat.isAny && h.feat.inner:
				if mv.Used.SetUsedOnce() {
					matchedHit = true
					filter[i] = 1
					head, _ := mv.Head()
					if err := ac.appendRow(head); err != nil {
						return nil, err
					}
					emitted++
				}
				break disjunctLoop

			case h.feat.isAnti:
				if h.feat.right && h.feat.needFlags {
					mv.Used.SetUsed()
				} else {
					matchedHit = true
				}

			default: // Any-LEFT / Semi-LEFT / RightAny
				matchedHit = true
				filter[i] = 1
				mv.Used.SetUsed()
				head, _ := mv.Head()
				if err := ac.appendRow(head); err != nil {
					return nil, err
				}
				emitted++
				if h.feat.isAny {
					break disjunctLoop
				}
			}
		}

		// Every probe row must contribute exactly the rows already
		// appended (emitted) plus, if none were, one placeholder —
		// except under pure replication with no add_missing, where a
		// miss legitimately contributes zero rows.
		if emitted == 0 {
			switch {
			case h.feat.isAnti && h.feat.left:
				if matchedHit {
					filter[i] = 0
				} else {
					filter[i] = 1
				}
				if err := ac.appendDefault(); err != nil {
					return nil, err
				}
			case h.feat.addMissing:
				filter[i] = 1
				if err := ac.appendDefault(); err != nil {
					return nil, err
				}
				emitted = 1
			case h.feat.needReplication:
				// contributes zero output rows for this probe row.
			default:
				if err := ac.appendDefault(); err != nil {
					return nil, err
				}
			}
		}

		if h.feat.needReplication {
			current += int64(emitted)
			offsets[i] = current
		}
	}

	return h.assemble(probe, ac, filter, offsets, h.feat.needFilter)
}

// claimOnce is the KnownRowsHolder of spec.md §4.3 step 3: across
// disjuncts of the same probe row, a build row already emitted must not
// be emitted again. Reports true the first time ref is claimed.
func claimOnce(known map[rowref.RowRef]struct{}, ref rowref.RowRef) bool {
	if known == nil {
		return true
	}
	if _, ok := known[ref]; ok {
		return false
	}
	known[ref] = struct{}{}
	return true
}

// assemble implements spec.md §4.3.1's post-loop block assembly.
func (h *HashJoin) assemble(probe *batch.Batch, ac *addedColumns, filter []uint8, offsets []int64, useFilter bool) (*batch.Batch, error) {
	var out *batch.Batch

	switch {
	case h.feat.needReplication:
		left, err := probe.Replicate(offsets)
		if err != nil {
			return nil, err
		}
		addedBatch := &batch.Batch{Attrs: ac.names, Vecs: ac.builders}
		out = &batch.Batch{
			Attrs: append(append([]string{}, left.Attrs...), addedBatch.Attrs...),
			Vecs:  append(append([]vector.Vector{}, left.Vecs...), addedBatch.Vecs...),
		}

	case useFilter:
		left := probe.Filter(filter)
		addedBatch := (&batch.Batch{Attrs: ac.names, Vecs: ac.builders}).Filter(filter)
		out = &batch.Batch{
			Attrs: append(append([]string{}, left.Attrs...), addedBatch.Attrs...),
			Vecs:  append(append([]vector.Vector{}, left.Vecs...), addedBatch.Vecs...),
		}

	default:
		out = &batch.Batch{
			Attrs: append(append([]string{}, probe.Attrs...), ac.names...),
			Vecs:  append(append([]vector.Vector{}, probe.Vecs...), ac.builders...),
		}
	}

	return out, nil
}

// JoinGet is spec.md §4.7's degenerate point-lookup probe path.
func (h *HashJoin) JoinGet(keyValues []vector.Vector) (vector.Vector, error) {
	if h.cfg.Kind != Left || !(h.feat.isAny) {
		return nil, moerr.NewIncompatibleJoinType("join_get: only supports Any/RightAny LEFT, got %s %s", h.cfg.Kind, h.cfg.Strictness)
	}
	if len(h.cfg.KeyNamesRight) == 0 {
		return nil, moerr.NewArgCountMismatch("join_get: join has no key disjuncts configured")
	}
	keyNames := h.cfg.KeyNamesRight[0]
	if len(keyValues) != len(keyNames) {
		return nil, moerr.NewArgCountMismatch("join_get: expected %d key arguments, got %d", len(keyNames), len(keyValues))
	}
	if len(h.keyTypesRight) > 0 && h.keyTypesRight[0] != nil {
		want := h.keyTypesRight[0]
		for i, v := range keyValues {
			if v.Type() != want[i] {
				return nil, moerr.NewTypeMismatch("join_get: key %d has type %s, want %s", i, v.Type(), want[i])
			}
		}
	}
	probe := &batch.Batch{Attrs: append([]string{}, keyNames...), Vecs: keyValues}
	result, _, err := h.Join(probe, nil)
	if err != nil {
		return nil, err
	}
	if len(result.Vecs) == 0 {
		return nil, moerr.NewNoSuchColumn("join_get: result block has no columns")
	}
	return result.Vecs[len(result.Vecs)-1], nil
}
