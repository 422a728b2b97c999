package hashmap

import "hash/maphash"

// Fixed-width key storage (spec.md §4.1 key8/16/32/64/keys128/keys256) is
// an open-addressed, linear-probed bucket array: a power-of-two bucket
// count, grow-on-demand by two bucket-count bits (4x) at a time once the
// load factor would be exceeded, and
// probing from hash&mask forward. This is a direct generalization of the
// teacher's container/hashtable.Int64HashMap (bucketCntBits/bucketCnt/
// resizeOnDemand/findBucket), widened from a hardcoded 8-byte key to an
// arbitrary fixed-width byte key since key8..keys256 only differ in
// width, never in probing logic.
//
// Hashing uses hash/maphash rather than the teacher's Crc32Int64Hash/
// AesBytesHash: those are hardware-intrinsic routines reached through
// cgo/assembly stubs this module does not carry, and no example repo
// vendors a pure-Go non-cryptographic hash library, so the stdlib's own
// non-cryptographic hash is the closest available equivalent.
const (
	initialBucketCntBits = 8
	initialBucketCnt     = 1 << initialBucketCntBits
	loadFactorNum        = 13
	loadFactorDenom      = 16
)

var bucketSeed = maphash.MakeSeed()

func hashKey(key string) uint64 {
	var h maphash.Hash
	h.SetSeed(bucketSeed)
	_, _ = h.WriteString(key)
	return h.Sum64()
}

type fixedCell struct {
	key    string
	mapped *MappedValue
}

// fixedBucketTable backs Key8/Key16/Key32/Key64/Keys128/Keys256: the key
// is always a fixed number of bytes for a given table, but the table
// itself doesn't need to know the width since Go strings compare by
// content regardless of length.
type fixedBucketTable struct {
	bucketCntBits uint
	bucketCnt     uint64
	elemCnt       uint64
	maxElemCnt    uint64
	buckets       []fixedCell
}

func newFixedBucketTable() *fixedBucketTable {
	t := &fixedBucketTable{}
	t.reset(initialBucketCntBits)
	return t
}

func (t *fixedBucketTable) reset(bucketCntBits uint) {
	t.bucketCntBits = bucketCntBits
	t.bucketCnt = 1 << bucketCntBits
	t.maxElemCnt = t.bucketCnt * loadFactorNum / loadFactorDenom
	t.buckets = make([]fixedCell, t.bucketCnt)
	t.elemCnt = 0
}

// findOrCreate returns the cell for key, creating it (and reporting
// created=true) if it wasn't already present.
func (t *fixedBucketTable) findOrCreate(key string) (mv *MappedValue, created bool) {
	t.resizeOnDemand(1)
	mask := t.bucketCnt - 1
	h := hashKey(key)
	for idx := h & mask; ; idx = (idx + 1) & mask {
		c := &t.buckets[idx]
		if c.mapped == nil {
			c.key = key
			c.mapped = &MappedValue{}
			t.elemCnt++
			return c.mapped, true
		}
		if c.key == key {
			return c.mapped, false
		}
	}
}

func (t *fixedBucketTable) find(key string) (*MappedValue, bool) {
	mask := t.bucketCnt - 1
	h := hashKey(key)
	for idx := h & mask; ; idx = (idx + 1) & mask {
		c := &t.buckets[idx]
		if c.mapped == nil {
			return nil, false
		}
		if c.key == key {
			return c.mapped, true
		}
	}
}

// resizeOnDemand mirrors Int64HashMap.resizeOnDemand: grow by two bucket-
// count-bits at a time until the new table clears the load factor for
// the incoming elements, then rehash every occupied cell in place.
func (t *fixedBucketTable) resizeOnDemand(n int) {
	target := t.elemCnt + uint64(n)
	if target <= t.maxElemCnt {
		return
	}
	old := t.buckets
	bits := t.bucketCntBits
	for {
		bits += 2
		cnt := uint64(1) << bits
		if cnt*loadFactorNum/loadFactorDenom >= target {
			break
		}
	}
	t.reset(bits)
	mask := t.bucketCnt - 1
	for _, c := range old {
		if c.mapped == nil {
			continue
		}
		h := hashKey(c.key)
		for idx := h & mask; ; idx = (idx + 1) & mask {
			if t.buckets[idx].mapped == nil {
				t.buckets[idx] = c
				t.elemCnt++
				break
			}
		}
	}
}

func (t *fixedBucketTable) values() []*MappedValue {
	out := make([]*MappedValue, 0, t.elemCnt)
	for i := range t.buckets {
		if t.buckets[i].mapped != nil {
			out = append(out, t.buckets[i].mapped)
		}
	}
	return out
}

func (t *fixedBucketTable) rangeFn(fn func(key string, mv *MappedValue) bool) {
	for i := range t.buckets {
		if t.buckets[i].mapped == nil {
			continue
		}
		if !fn(t.buckets[i].key, t.buckets[i].mapped) {
			return
		}
	}
}

func (t *fixedBucketTable) len() int { return int(t.elemCnt) }

// cloneFreshUsed copies the bucket layout, aliasing each occupied cell's
// key but replacing its MappedValue with a fresh-used-flag clone.
func (t *fixedBucketTable) cloneFreshUsed() *fixedBucketTable {
	clone := &fixedBucketTable{
		bucketCntBits: t.bucketCntBits,
		bucketCnt:     t.bucketCnt,
		elemCnt:       t.elemCnt,
		maxElemCnt:    t.maxElemCnt,
		buckets:       make([]fixedCell, len(t.buckets)),
	}
	for i, c := range t.buckets {
		if c.mapped == nil {
			continue
		}
		clone.buckets[i] = fixedCell{key: c.key, mapped: c.mapped.cloneFreshUsed()}
	}
	return clone
}

func isFixedBucketVariant(v Variant) bool {
	switch v {
	case Key8, Key16, Key32, Key64, Keys128, Keys256:
		return true
	default:
		return false
	}
}
