// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hashmap is the key packer and hash-table variant family of
// spec.md §4.1: it chooses one of nine strategies from key-column shapes
// and exposes a monomorphic KeyGetter per variant, grounded on the
// teacher's split between IntHashMap/StrHashMap (pkg/common/hashmap) and
// the bucket strategies in pkg/container/hashtable.
package hashmap

import (
	"github.com/arenadata/colhashjoin/pkg/common/hashmap/asof"
	"github.com/arenadata/colhashjoin/pkg/common/rowref"
	"github.com/arenadata/colhashjoin/pkg/container/types"
	"github.com/arenadata/colhashjoin/pkg/join/usedflags"
)

// Variant is the hash-table flavor selected once per join (spec.md §3:
// Hash variant).
type Variant uint8

const (
	Empty Variant = iota
	Cross
	Dict
	Key8
	Key16
	Key32
	Key64
	Keys128
	Keys256
	KeyString
	KeyFixedString
	Hashed
)

func (v Variant) String() string {
	switch v {
	case Empty:
		return "EMPTY"
	case Cross:
		return "CROSS"
	case Dict:
		return "DICT"
	case Key8:
		return "key8"
	case Key16:
		return "key16"
	case Key32:
		return "key32"
	case Key64:
		return "key64"
	case Keys128:
		return "keys128"
	case Keys256:
		return "keys256"
	case KeyString:
		return "key_string"
	case KeyFixedString:
		return "key_fixed_string"
	case Hashed:
		return "hashed"
	default:
		return "unknown"
	}
}

// ChooseVariant applies the selection rule of spec.md §4.1, top to
// bottom, first match wins.
func ChooseVariant(keyTypes []types.Type) Variant {
	if len(keyTypes) == 0 {
		return Cross
	}
	if len(keyTypes) == 1 {
		if w, ok := keyTypes[0].FixedWidth(); ok && keyTypes[0].Kind != types.KindFixedString {
			switch w {
			case 1:
				return Key8
			case 2:
				return Key16
			case 4:
				return Key32
			case 8:
				return Key64
			case 16:
				return Keys128
			case 32:
				return Keys256
			}
		}
		if keyTypes[0].Kind == types.KindString {
			return KeyString
		}
		if keyTypes[0].Kind == types.KindFixedString {
			return KeyFixedString
		}
	}
	total := 0
	allFixed := true
	for _, t := range keyTypes {
		w, ok := t.FixedWidth()
		if !ok {
			allFixed = false
			break
		}
		total += w
	}
	if allFixed {
		switch {
		case total <= 16:
			return Keys128
		case total <= 32:
			return Keys256
		}
	}
	if len(keyTypes) == 1 && keyTypes[0].Kind == types.KindString {
		return KeyString
	}
	if len(keyTypes) == 1 && keyTypes[0].Kind == types.KindFixedString {
		return KeyFixedString
	}
	return Hashed
}

// MappedValue is a hash cell's payload: a used-flag plus either a single
// RowRef, a chain of RowRefs in build-insertion order, or (for ASOF) an
// ordered series, per spec.md §3.
type MappedValue struct {
	Used usedflags.Flag

	hasHead bool
	head    rowref.RowRef
	chain   *chainNode

	Asof *asof.Series
}

type chainNode struct {
	ref  rowref.RowRef
	next *chainNode
}

// InsertSingle implements the Single mapped-value Inserter behavior
// (spec.md §4.2): first insert wins, later ones replace only if takeLast.
func (mv *MappedValue) InsertSingle(ref rowref.RowRef, takeLast bool) {
	if !mv.hasHead {
		mv.head, mv.hasHead = ref, true
		return
	}
	if takeLast {
		mv.head = ref
	}
}

// InsertChain implements the Chain mapped-value Inserter behavior
// (spec.md §4.2): first insert writes the head; later ones prepend an
// arena node.
func (mv *MappedValue) InsertChain(ref rowref.RowRef, alloc func() *chainNode) {
	if !mv.hasHead {
		mv.head, mv.hasHead = ref, true
		return
	}
	node := alloc()
	node.ref = ref
	node.next = mv.chain
	mv.chain = node
}

// Head returns the first-inserted RowRef (used by strictness modes that
// only ever need one row: Any INNER, and Any/Semi LEFT and RightAny).
func (mv *MappedValue) Head() (rowref.RowRef, bool) {
	return mv.head, mv.hasHead
}

// Rows returns every RowRef in build-insertion order (spec.md §5:
// "matched build rows appear in build-insertion order (per disjunct)").
// The chain is stored most-recently-prepended-first, so this reverses it.
func (mv *MappedValue) Rows() []rowref.RowRef {
	if !mv.hasHead {
		return nil
	}
	var rev []rowref.RowRef
	for n := mv.chain; n != nil; n = n.next {
		rev = append(rev, n.ref)
	}
	out := make([]rowref.RowRef, 0, len(rev)+1)
	out = append(out, mv.head)
	for i := len(rev) - 1; i >= 0; i-- {
		out = append(out, rev[i])
	}
	return out
}
