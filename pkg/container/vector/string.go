package vector

import "github.com/arenadata/colhashjoin/pkg/container/types"

// StringVector backs spec.md §4.1 rule 4 (single string key, or any other
// variable-length string payload column): offsets + a flat byte buffer,
// the usual columnar varlen layout.
type StringVector struct {
	offsets  []int32 // offsets[i] = start of row i; len(offsets) = Length()+1
	data     []byte
	nulls    *NullMap
	isConst  bool
	constVal []byte
	constLen int
}

func NewStringVector() *StringVector {
	return &StringVector{offsets: []int32{0}}
}

// NewConstStringVector builds a low-cardinality/constant-form string
// vector (spec.md §3 Column: "materialization of constant ... forms"):
// logically `length` copies of val without physically storing them until
// Materialize is called.
func NewConstStringVector(val []byte, length int) *StringVector {
	return &StringVector{isConst: true, constVal: val, constLen: length}
}

func (v *StringVector) Type() types.Type { return types.Type{Kind: types.KindString} }

func (v *StringVector) Length() int {
	if v.isConst {
		return v.constLen
	}
	return len(v.offsets) - 1
}

func (v *StringVector) Bytes() int64 {
	if v.isConst {
		return int64(len(v.constVal))
	}
	return int64(len(v.data) + len(v.offsets)*4)
}

func (v *StringVector) IsNull(i int) bool {
	return v.nulls != nil && v.nulls.IsNull(i)
}

func (v *StringVector) Nullable() bool { return v.nulls != nil }

func (v *StringVector) EnableNulls() {
	if v.nulls == nil {
		v.nulls = NewNullMap()
	}
}

func (v *StringVector) At(i int) []byte {
	if v.isConst {
		return v.constVal
	}
	return v.data[v.offsets[i]:v.offsets[i+1]]
}

func (v *StringVector) Append(val []byte) {
	v.data = append(v.data, val...)
	v.offsets = append(v.offsets, int32(len(v.data)))
}

func (v *StringVector) AppendNull() {
	v.EnableNulls()
	v.nulls.Set(v.Length())
	v.offsets = append(v.offsets, v.offsets[len(v.offsets)-1])
}

func (v *StringVector) UnionOne(src Vector, row int) error {
	s := src.(*StringVector)
	if s.nulls != nil && s.nulls.IsNull(row) {
		v.AppendNull()
		return nil
	}
	v.Append(s.At(row))
	return nil
}

func (v *StringVector) UnionMulti(src Vector, row int, times int) error {
	for k := 0; k < times; k++ {
		if err := v.UnionOne(src, row); err != nil {
			return err
		}
	}
	return nil
}

func (v *StringVector) UnionNull() error {
	v.AppendNull()
	return nil
}

func (v *StringVector) Filter(mask []uint8) Vector {
	src := v.Materialize().(*StringVector)
	out := NewStringVector()
	for i, m := range mask {
		if m != 0 {
			_ = out.UnionOne(src, i)
		}
	}
	return out
}

// Materialize expands a constant-form string vector into a full one
// (spec.md §3 Column: materialization), matching the teacher's
// "Materialize constants in the block" builder step (spec.md §4.2 step 2).
func (v *StringVector) Materialize() Vector {
	if !v.isConst {
		return v
	}
	out := NewStringVector()
	for i := 0; i < v.constLen; i++ {
		out.Append(v.constVal)
	}
	return out
}

func (v *StringVector) Clone() Vector { return NewStringVector() }

// FixedStringVector backs spec.md §4.1 rule 5: fixed-width strings, stored
// like FixedVector but tagged FixedString so the key packer picks the
// dedicated variant instead of falling through to `hashed`.
type FixedStringVector struct {
	*FixedVector
}

func NewFixedStringVector(width int) *FixedStringVector {
	return &FixedStringVector{FixedVector: NewFixedVector(types.Type{Kind: types.KindFixedString, Width: width})}
}

func (v *FixedStringVector) Clone() Vector {
	return NewFixedStringVector(v.width)
}
