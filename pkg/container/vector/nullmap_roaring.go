package vector

import "github.com/RoaringBitmap/roaring"

// roaringWrapper narrows github.com/RoaringBitmap/roaring's Bitmap to the
// handful of operations NullMap needs (probe-side filter masks are plain
// []uint8 slices and do not use it), so the
// rest of the package isn't littered with roaring-specific calls.
type roaringWrapper struct {
	bm *roaring.Bitmap
}

func newRoaringWrapper() *roaringWrapper {
	return &roaringWrapper{bm: roaring.New()}
}

func (w *roaringWrapper) Add(i uint32)            { w.bm.Add(i) }
func (w *roaringWrapper) Contains(i uint32) bool  { return w.bm.Contains(i) }
func (w *roaringWrapper) Or(other *roaringWrapper) { w.bm.Or(other.bm) }

// Max1 returns the largest set bit plus one, or 0 if empty — used as a
// cheap "how many rows could possibly be NULL" upper bound.
func (w *roaringWrapper) Max1() uint64 {
	if w.bm.IsEmpty() {
		return 0
	}
	return uint64(w.bm.Maximum()) + 1
}

func (w *roaringWrapper) Clone() *roaringWrapper {
	return &roaringWrapper{bm: w.bm.Clone()}
}
