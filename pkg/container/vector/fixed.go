package vector

import "github.com/arenadata/colhashjoin/pkg/container/types"

// FixedVector stores one fixed-width value per row as a flat byte slice,
// covering all of spec.md §4.1 rule 2/3's 1/2/4/8/16/32-byte shapes with a
// single implementation — the teacher keeps per-width Go types
// (container/vector has dedicated int64/int32/... vectors generated from a
// template); a join engine's numeric payload columns don't need per-width
// arithmetic, only byte-identical storage and copy, so one width-parametric
// type suffices here.
type FixedVector struct {
	typ   types.Type
	width int
	data  []byte
	nulls *NullMap
}

func NewFixedVector(typ types.Type) *FixedVector {
	width, ok := typ.FixedWidth()
	if !ok {
		panic("vector: NewFixedVector requires a fixed-width type")
	}
	return &FixedVector{typ: typ, width: width}
}

func (v *FixedVector) Type() types.Type { return v.typ }
func (v *FixedVector) Length() int      { return len(v.data) / v.width }
func (v *FixedVector) Bytes() int64     { return int64(len(v.data)) }

func (v *FixedVector) IsNull(i int) bool {
	return v.nulls != nil && v.nulls.IsNull(i)
}

func (v *FixedVector) Nullable() bool { return v.nulls != nil }

// EnableNulls promotes this vector to nullable, matching the builder's
// "nullable conversions where required" step (spec.md §4.2 step 4).
func (v *FixedVector) EnableNulls() {
	if v.nulls == nil {
		v.nulls = NewNullMap()
	}
}

// At returns the raw bytes of row i's value.
func (v *FixedVector) At(i int) []byte {
	return v.data[i*v.width : (i+1)*v.width]
}

// Append adds one raw value. Callers that need a nullable append use
// AppendNull instead.
func (v *FixedVector) Append(val []byte) {
	if len(val) != v.width {
		panic("vector: fixed-width append size mismatch")
	}
	v.data = append(v.data, val...)
}

func (v *FixedVector) AppendNull() {
	v.EnableNulls()
	v.nulls.Set(v.Length())
	v.data = append(v.data, make([]byte, v.width)...)
}

func (v *FixedVector) UnionOne(src Vector, row int) error {
	s := src.(*FixedVector)
	if s.nulls != nil && s.nulls.IsNull(row) {
		v.AppendNull()
		return nil
	}
	v.Append(s.At(row))
	return nil
}

func (v *FixedVector) UnionMulti(src Vector, row int, times int) error {
	for k := 0; k < times; k++ {
		if err := v.UnionOne(src, row); err != nil {
			return err
		}
	}
	return nil
}

func (v *FixedVector) UnionNull() error {
	v.AppendNull()
	return nil
}

func (v *FixedVector) Filter(mask []uint8) Vector {
	out := NewFixedVector(v.typ)
	for i, m := range mask {
		if m != 0 {
			_ = out.UnionOne(v, i)
		}
	}
	return out
}

func (v *FixedVector) Materialize() Vector { return v }

func (v *FixedVector) Clone() Vector { return NewFixedVector(v.typ) }
