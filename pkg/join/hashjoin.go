package join

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/arenadata/colhashjoin/pkg/common/hashmap"
	"github.com/arenadata/colhashjoin/pkg/common/moerr"
	"github.com/arenadata/colhashjoin/pkg/common/mpool"
	"github.com/arenadata/colhashjoin/pkg/container/batch"
	"github.com/arenadata/colhashjoin/pkg/container/types"
	"github.com/arenadata/colhashjoin/pkg/join/crossjoin"
	"github.com/arenadata/colhashjoin/pkg/join/dictjoin"
	"github.com/arenadata/colhashjoin/pkg/logutil"
)

// nullKeySide retains, per spec.md §4.2 step 6, the build blocks that had
// at least one NULL-keyed row in some disjunct, for RIGHT/FULL emission
// (spec.md §3 Invariants: "preserved in a side list when the join kind is
// RIGHT or FULL").
type nullKeySide struct {
	block *batch.Batch
	rows  []uint32
}

// HashJoin is spec.md §6's engine object.
type HashJoin struct {
	cfg  TableJoin
	feat features
	mp   *mpool.MPool

	variant hashmap.Variant
	maps    []*hashmap.Map

	buildBlocks []*batch.Batch
	nullSide    []nullKeySide

	// keyTypesRight is learned from the first build block per disjunct,
	// mirroring right_table_keys' declared types in HashJoin.cpp's
	// constructor. JoinGet uses it (or cfg.RightSampleBlock, if set) to
	// raise TYPE_MISMATCH the way joinGetCheckAndGetReturnType does.
	keyTypesRight [][]types.Type

	probeStarted atomic.Bool
	buildMu      sync.Mutex

	totalRows  atomic.Int64
	totalBytes atomic.Int64

	addedColumnNames []string
	asofKeyName      string

	dictAdapter *dictjoin.Adapter
	crossExec   *crossjoin.Executor
}

// New constructs a HashJoin per spec.md §6, validating the
// structural preconditions that spec.md §7 maps to NOT_IMPLEMENTED /
// SYNTAX_ERROR / LOGICAL_ERROR.
func New(cfg TableJoin) (*HashJoin, error) {
	if cfg.Strictness == Asof {
		if cfg.Kind != Inner && cfg.Kind != Left {
			return nil, moerr.NewNotImplemented("ASOF join only supports INNER/LEFT, got %s", cfg.Kind)
		}
		for _, keys := range cfg.KeyNamesRight {
			if len(keys) < 2 {
				return nil, moerr.NewSyntaxError("ASOF join requires at least two keys per disjunct, got %d", len(keys))
			}
		}
		if cfg.RightSampleBlock != nil {
			for _, keys := range cfg.KeyNamesRight {
				asofKey := keys[len(keys)-1]
				col, err := cfg.RightSampleBlock.Column(asofKey)
				if err != nil {
					return nil, err
				}
				if col.Nullable() {
					return nil, moerr.NewNotImplemented("ASOF join over right table Nullable column %q is not implemented", asofKey)
				}
			}
		}
	}
	if cfg.DictionaryReader != nil {
		allowed := cfg.Kind == Left && (cfg.Strictness == Any || cfg.Strictness == Semi || cfg.Strictness == Anti)
		if !allowed {
			return nil, moerr.NewLogicalError("dictionary-mode join only supports LEFT ANY/SEMI/ANTI, got %s %s", cfg.Kind, cfg.Strictness)
		}
	}

	h := &HashJoin{cfg: cfg, mp: mpool.New(), feat: computeFeatures(cfg)}

	switch {
	case cfg.Kind == CrossJoin:
		h.variant = hashmap.Cross
		h.crossExec = crossjoin.New(cfg.MaxJoinedBlockRows)
	case cfg.DictionaryReader != nil:
		h.variant = hashmap.Dict
		keyCols := cfg.KeyNamesRight[0]
		h.dictAdapter = dictjoin.NewAdapter(cfg.DictionaryReader, keyCols)
	default:
		h.variant = hashmap.Empty
		h.maps = make([]*hashmap.Map, cfg.disjuncts())
		if cfg.Strictness == Asof && len(cfg.KeyNamesRight) > 0 {
			keys := cfg.KeyNamesRight[0]
			h.asofKeyName = keys[len(keys)-1]
		}
	}

	if cfg.RightSampleBlock != nil && cfg.Kind != CrossJoin && cfg.DictionaryReader == nil {
		h.keyTypesRight = make([][]types.Type, cfg.disjuncts())
		for d, keys := range cfg.KeyNamesRight {
			names := keys
			if cfg.Strictness == Asof {
				names = keys[:len(keys)-1]
			}
			kt := make([]types.Type, len(names))
			for i, name := range names {
				col, err := cfg.RightSampleBlock.Column(name)
				if err != nil {
					return nil, err
				}
				kt[i] = col.Type()
			}
			h.keyTypesRight[d] = kt
		}
	}

	logutil.Debug("join engine constructed",
		zap.String("kind", cfg.Kind.String()),
		zap.String("strictness", cfg.Strictness.String()),
		zap.Int("disjuncts", cfg.disjuncts()))
	return h, nil
}

// TotalRows is spec.md §6's total_rows(): the build side's row count.
func (h *HashJoin) TotalRows() int64 { return h.totalRows.Load() }

// TotalBytes is spec.md §6's total_bytes().
func (h *HashJoin) TotalBytes() int64 { return h.totalBytes.Load() }

// Empty reports whether the build side holds no rows (spec.md §6:
// empty()).
func (h *HashJoin) Empty() bool {
	return h.variant != hashmap.Cross && h.variant != hashmap.Dict && h.totalRows.Load() == 0
}

// OverDictionary reports whether this join's build side is an external
// dictionary (spec.md §6: over_dictionary()).
func (h *HashJoin) OverDictionary() bool { return h.dictAdapter != nil }

// AlwaysReturnsEmptySet reports whether the join can never produce rows —
// true only for INNER/RIGHT-family kinds over an empty, non-cross,
// non-dictionary build side (spec.md §6: always_returns_empty_set()).
func (h *HashJoin) AlwaysReturnsEmptySet() bool {
	if h.OverDictionary() || h.cfg.Kind == CrossJoin {
		return false
	}
	if !h.Empty() {
		return false
	}
	return h.cfg.Kind == Inner || h.cfg.Kind == Right
}

// ReuseJoinedData transfers donor's build state by shared ownership
// (spec.md §5: reuseJoinedData). spec.md §9 notes the source assumes but
// never checks kind/strictness compatibility; this implementation
// validates it explicitly. Build blocks, the null-key side list, and
// RowRef/Asof payloads are shared directly with the donor, but each map
// is cloned via CloneFreshUsed so the recipient gets its own used-flag
// per cell (spec.md §5: "the recipient re-sizes used-flags fresh") —
// aliasing donor.maps outright would let rows the donor's probe already
// marked used look pre-matched to the recipient, corrupting RIGHT/FULL
// unmatched-row emission.
func (h *HashJoin) ReuseJoinedData(donor *HashJoin) error {
	if donor.cfg.Kind != h.cfg.Kind || donor.cfg.Strictness != h.cfg.Strictness {
		return moerr.NewLogicalError("reuseJoinedData: kind/strictness mismatch (%s/%s vs %s/%s)",
			donor.cfg.Kind, donor.cfg.Strictness, h.cfg.Kind, h.cfg.Strictness)
	}
	if h.probeStarted.Load() {
		return moerr.NewLogicalError("reuseJoinedData: recipient has already begun probing")
	}
	h.variant = donor.variant
	h.maps = make([]*hashmap.Map, len(donor.maps))
	for i, m := range donor.maps {
		if m != nil {
			h.maps[i] = m.CloneFreshUsed()
		}
	}
	h.buildBlocks = donor.buildBlocks
	h.nullSide = donor.nullSide
	h.addedColumnNames = donor.addedColumnNames
	h.asofKeyName = donor.asofKeyName
	h.keyTypesRight = donor.keyTypesRight
	h.totalRows.Store(donor.totalRows.Load())
	h.totalBytes.Store(donor.totalBytes.Load())
	return nil
}
