package hashmap

import "github.com/arenadata/colhashjoin/pkg/common/mpool"

// Map is one disjunct's hash table. Key8/Key16/Key32/Key64/Keys128/
// Keys256 (spec.md §4.1) are backed by fixedBucketTable, an open-
// addressed array structurally adapted from the teacher's
// container/hashtable.Int64HashMap (buckets.go). KeyString/
// KeyFixedString/Hashed keep a plain Go map: those keys are variable-
// length byte strings, which is exactly what Go's builtin map (itself an
// open-addressed/chained hash table at the runtime level) is for, and
// the teacher's own variable-length counterpart
// (container/hashtable.StringHashMap) is a block-allocated cell array
// keyed on an unsafe-pointer-sliced byte buffer that has no Go-level
// equivalent without unsafe.Pointer games this module avoids elsewhere.
type Map struct {
	variant Variant
	fixed   *fixedBucketTable
	cells   map[string]*MappedValue
	arena   *mpool.ChainArena[chainNode]
	mp      *mpool.MPool
}

func NewMap(variant Variant, mp *mpool.MPool) *Map {
	m := &Map{
		variant: variant,
		arena:   mpool.NewChainArena[chainNode](mp),
		mp:      mp,
	}
	if isFixedBucketVariant(variant) {
		m.fixed = newFixedBucketTable()
	} else {
		m.cells = make(map[string]*MappedValue)
	}
	return m
}

func (m *Map) Variant() Variant { return m.variant }

// FindOrCreate returns the cell for key, creating an empty one if absent
// (spec.md §4.2: "Inserter" emplace path).
func (m *Map) FindOrCreate(key string) *MappedValue {
	if m.fixed != nil {
		mv, created := m.fixed.findOrCreate(key)
		if created {
			m.mp.Alloc(int64(len(key)) + 64)
		}
		return mv
	}
	mv, ok := m.cells[key]
	if !ok {
		mv = &MappedValue{}
		m.cells[key] = mv
		m.mp.Alloc(int64(len(key)) + 64)
	}
	return mv
}

// Find returns the cell for key without creating it (spec.md §4.1:
// KeyGetter.findKey).
func (m *Map) Find(key string) (*MappedValue, bool) {
	if m.fixed != nil {
		return m.fixed.find(key)
	}
	mv, ok := m.cells[key]
	return mv, ok
}

func (m *Map) NewChainNode() *chainNode {
	return m.arena.Alloc()
}

func (m *Map) Len() int {
	if m.fixed != nil {
		return m.fixed.len()
	}
	return len(m.cells)
}

// Values snapshots every cell into a stable-order slice, used by the
// non-joined emitter (spec.md §4.5) which must persist iterator
// position across calls — something a live Go map range cannot do.
func (m *Map) Values() []*MappedValue {
	if m.fixed != nil {
		return m.fixed.values()
	}
	out := make([]*MappedValue, 0, len(m.cells))
	for _, v := range m.cells {
		out = append(out, v)
	}
	return out
}

// Range calls fn for every cell, in unspecified order, stopping early if
// fn returns false. The non-joined emitter does not use it; it works
// from a Values snapshot instead.
func (m *Map) Range(fn func(key string, mv *MappedValue) bool) {
	if m.fixed != nil {
		m.fixed.rangeFn(fn)
		return
	}
	for k, v := range m.cells {
		if !fn(k, v) {
			return
		}
	}
}

// CloneFreshUsed returns a Map sharing this one's keys and RowRef/Asof
// payloads but with every cell's used-flag reset to unused — spec.md
// §5's "the recipient re-sizes used-flags fresh" for ReuseJoinedData.
// Used-flags live embedded per-cell (usedflags.Flag has no separate
// backing array to resize), so giving the recipient a fresh view means
// allocating new MappedValue cells that alias the donor's head/chain/Asof
// fields but never its Used field.
func (m *Map) CloneFreshUsed() *Map {
	clone := &Map{variant: m.variant, arena: m.arena, mp: m.mp}
	if m.fixed != nil {
		clone.fixed = m.fixed.cloneFreshUsed()
		return clone
	}
	clone.cells = make(map[string]*MappedValue, len(m.cells))
	for k, v := range m.cells {
		clone.cells[k] = v.cloneFreshUsed()
	}
	return clone
}

func (mv *MappedValue) cloneFreshUsed() *MappedValue {
	return &MappedValue{
		hasHead: mv.hasHead,
		head:    mv.head,
		chain:   mv.chain,
		Asof:    mv.Asof,
	}
}
