package join

import (
	"sort"

	"go.uber.org/zap"

	"github.com/arenadata/colhashjoin/pkg/common/hashmap"
	"github.com/arenadata/colhashjoin/pkg/common/hashmap/asof"
	"github.com/arenadata/colhashjoin/pkg/common/moerr"
	"github.com/arenadata/colhashjoin/pkg/common/rowref"
	"github.com/arenadata/colhashjoin/pkg/container/batch"
	"github.com/arenadata/colhashjoin/pkg/container/types"
	"github.com/arenadata/colhashjoin/pkg/container/vector"
	"github.com/arenadata/colhashjoin/pkg/logutil"
)

const maxBuildRows = 1<<32 - 1

// AddBuildBlock ingests one right-side block (spec.md §4.2). It returns
// accepted=false without error when enforceSizeLimits is set and the
// configured SizeLimits.Throw is false and the limit has been exceeded;
// with Throw set, an exceeded limit instead returns an error.
func (h *HashJoin) AddBuildBlock(block *batch.Batch, enforceSizeLimits bool) (bool, error) {
	if h.crossExec == nil && h.dictAdapter == nil && h.maps == nil {
		return false, h.logicError("add_build_block: join not initialized")
	}
	if h.dictAdapter != nil {
		return false, h.logicError("add_build_block: join is dictionary-mode")
	}
	if h.probeStarted.Load() {
		return false, h.logicError("add_build_block: build side is locked by a concurrent probe")
	}
	if block.RowCount() > maxBuildRows {
		return false, h.logicError("add_build_block: block has %d rows, exceeds %d", block.RowCount(), maxBuildRows)
	}

	h.buildMu.Lock()
	defer h.buildMu.Unlock()

	block.Materialize()

	logutil.Debug("adding build block",
		zap.Int("rows", block.RowCount()),
		zap.Int64("bytes", block.Bytes()),
		zap.Bool("enforceSizeLimits", enforceSizeLimits))

	if h.crossExec != nil {
		h.buildBlocks = append(h.buildBlocks, block)
		h.totalRows.Add(int64(block.RowCount()))
		h.totalBytes.Add(block.Bytes())
		return h.checkLimits(enforceSizeLimits)
	}

	h.buildBlocks = append(h.buildBlocks, block)

	// nullKeyRows dedups across disjuncts: a row whose key is NULL in more
	// than one disjunct's conjunction must still end up in h.nullSide
	// exactly once, or the non-joined stream would emit it twice.
	nullKeyRows := make(map[uint32]bool)

	for d := 0; d < h.cfg.disjuncts(); d++ {
		keyNames := h.cfg.KeyNamesRight[d]
		equalityNames := keyNames
		if h.cfg.Strictness == Asof {
			equalityNames = keyNames[:len(keyNames)-1]
		}

		cols := make([]vector.Vector, len(equalityNames))
		keyTypes := make([]types.Type, len(equalityNames))
		for i, name := range equalityNames {
			v, err := block.Column(name)
			if err != nil {
				return false, err
			}
			cols[i] = v
			keyTypes[i] = v.Type()
		}

		if h.keyTypesRight == nil {
			h.keyTypesRight = make([][]types.Type, h.cfg.disjuncts())
		}
		if h.keyTypesRight[d] == nil {
			h.keyTypesRight[d] = append([]types.Type{}, keyTypes...)
		}

		variant := hashmap.ChooseVariant(keyTypes)
		if h.variant == hashmap.Empty {
			h.variant = variant
		} else if h.variant != variant {
			// spec.md §4.1: a later disjunct that would choose a
			// different variant forces promotion to the universal
			// fallback so every disjunct shares one storage shape.
			h.variant = hashmap.Hashed
		}
		if h.maps[d] == nil {
			h.maps[d] = hashmap.NewMap(h.variant, h.mp)
		}

		getter, err := hashmap.NewKeyGetter(h.variant, cols)
		if err != nil {
			return false, err
		}

		var asofCol vector.Vector
		if h.cfg.Strictness == Asof {
			var err error
			asofCol, err = block.Column(keyNames[len(keyNames)-1])
			if err != nil {
				return false, err
			}
		}

		rows := block.RowCount()
		for row := 0; row < rows; row++ {
			key, ok := getter.Key(cols, row)
			if !ok {
				nullKeyRows[uint32(row)] = true
				continue
			}
			mv := h.maps[d].FindOrCreate(key)
			ref := rowref.RowRef{Block: block, Row: uint32(row)}

			switch {
			case h.cfg.Strictness == Asof:
				val, ok := vector.Int64At(asofCol, row)
				if !ok {
					nullKeyRows[uint32(row)] = true
					continue
				}
				if mv.Asof == nil {
					mv.Asof = asof.NewSeries()
				}
				mv.Asof.Insert(val, ref)
			case h.feat.needReplication:
				mv.InsertChain(ref, h.maps[d].NewChainNode)
			default:
				mv.InsertSingle(ref, h.cfg.AnyTakeLastRow)
			}
		}
	}

	if (h.cfg.Kind == Right || h.cfg.Kind == Full) && len(nullKeyRows) > 0 {
		rows := make([]uint32, 0, len(nullKeyRows))
		for row := range nullKeyRows {
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i] < rows[j] })
		h.nullSide = append(h.nullSide, nullKeySide{block: block, rows: rows})
	}

	h.totalRows.Add(int64(block.RowCount()))
	h.totalBytes.Add(block.Bytes())

	return h.checkLimits(enforceSizeLimits)
}

func (h *HashJoin) checkLimits(enforce bool) (bool, error) {
	if !enforce {
		return true, nil
	}
	rows, bytes := h.totalRows.Load(), h.totalBytes.Load()
	if !h.cfg.SizeLimits.exceeded(rows, bytes) {
		return true, nil
	}
	logutil.Warn("build side size limit exceeded",
		zap.Int64("rows", rows), zap.Int64("bytes", bytes), zap.Bool("throw", h.cfg.SizeLimits.Throw))
	if h.cfg.SizeLimits.Throw {
		err := moerr.NewSizeLimitExceeded("build side exceeded size limits: rows=%d bytes=%d", rows, bytes)
		logutil.Error("add_build_block failed", zap.Error(err))
		return false, err
	}
	return false, nil
}

// logicError logs and constructs a LOGICAL_ERROR the way spec.md §7
// expects every engine-raised error to be observable, not just returned.
func (h *HashJoin) logicError(format string, args ...any) error {
	err := moerr.NewLogicalError(format, args...)
	logutil.Error("add_build_block failed", zap.Error(err))
	return err
}
