// Package dictjoin is the dictionary adapter of spec.md §4.6: when the
// build side is an external key-value dictionary, no hash table is built;
// instead a KeyGetterForDict performs one bulk lookup per probe block and
// serves every row of that block from the cached result.
//
// Grounded on sql/colexec/indexjoin/join.go (an external index feeding a
// join operator) and original_source's KeyGetterForDict.
package dictjoin

import "github.com/arenadata/colhashjoin/pkg/container/batch"

// Reader is the dictionary layer's callback contract (spec.md §1: "the
// dictionary layer's internal key lookup mechanism" is out of scope —
// only this callback contract is specified).
type Reader interface {
	// Lookup performs a bulk lookup of probe's rows against keyCols,
	// returning a result block holding the dictionary's row for every
	// found row (indexed the same as probe's rows) plus a found mask.
	Lookup(probe *batch.Batch, keyCols []string) (result *batch.Batch, found []bool, err error)
}

// Adapter is spec.md §4.6's KeyGetterForDict: "on first findKey for a
// probe block, performs a bulk lookup ...; subsequent per-row findKey
// calls read from the cached result".
type Adapter struct {
	reader  Reader
	keyCols []string

	cachedFor *batch.Batch
	result    *batch.Batch
	found     []bool
}

func NewAdapter(reader Reader, keyCols []string) *Adapter {
	return &Adapter{reader: reader, keyCols: keyCols}
}

// Prepare performs (or reuses) the bulk lookup for probe, matching the
// adapter's lazy-materialization contract.
func (a *Adapter) Prepare(probe *batch.Batch) error {
	if a.cachedFor == probe {
		return nil
	}
	result, found, err := a.reader.Lookup(probe, a.keyCols)
	if err != nil {
		return err
	}
	a.cachedFor = probe
	a.result = result
	a.found = found
	return nil
}

// FindKey reports whether row `row` of the most recently Prepare-d probe
// block found a dictionary entry, and if so its row index into Result().
func (a *Adapter) FindKey(row int) (resultRow int, ok bool) {
	if row < 0 || row >= len(a.found) || !a.found[row] {
		return 0, false
	}
	return row, true
}

// Result returns the dictionary rows fetched by the last Prepare call.
func (a *Adapter) Result() *batch.Batch {
	return a.result
}
