package vector

import (
	"encoding/binary"

	"github.com/arenadata/colhashjoin/pkg/container/types"
)

// Int64At reads row i of a fixed-width numeric vector as an int64,
// little-endian and sign-extended from the column's declared width (all
// of types.KindInt8/16/32/64 are signed; see container/types). Used by
// the ASOF series (spec.md §4.1: "the last key column is stripped ...
// and handled by the ASOF series"), which needs an ordered scalar
// regardless of the original column's exact width — a naive zero-extend
// would turn a negative int32 ASOF key (e.g. -1, bytes FF FF FF FF) into
// 4294967295 and corrupt the series' sort order.
func Int64At(v Vector, row int) (int64, bool) {
	fv, ok := v.(*FixedVector)
	if !ok || fv.IsNull(row) {
		return 0, false
	}
	b := fv.At(row)
	switch len(b) {
	case 1:
		return int64(int8(b[0])), true
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(b))), true
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(b))), true
	case 8:
		return int64(binary.LittleEndian.Uint64(b)), true
	default:
		return 0, false
	}
}

// NewInt64Vector builds a Key64-shaped fixed vector and appends vals,
// convenient for tests and the cmd/joinbench demo.
func NewInt64Vector(vals ...int64) *FixedVector {
	v := NewFixedVector(types.Type{Kind: types.KindInt64})
	for _, x := range vals {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(x))
		v.Append(buf[:])
	}
	return v
}

// NewInt32Vector builds a Key32-shaped fixed vector.
func NewInt32Vector(vals ...int32) *FixedVector {
	v := NewFixedVector(types.Type{Kind: types.KindInt32})
	for _, x := range vals {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(x))
		v.Append(buf[:])
	}
	return v
}
