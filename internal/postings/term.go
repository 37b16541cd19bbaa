// Package postings implements Term and its posting lists (spec.md §3,
// §4.3): the doc_ids/weights parallel arrays, stop-term detection, and
// a dual-mode (sorted-slice / roaring-bitmap) membership check that
// Term.Contains answers from a bitmap once a term's posting count
// reaches BitmapThreshold.
package postings

import (
	"sort"

	roaring "github.com/RoaringBitmap/roaring/v2"
)

// StoppedDF is the sentinel document-frequency value marking a term as
// a stop term: it holds no postings and is ignored during scoring.
const StoppedDF = -1

// BitmapThreshold is the posting count at or above which Term.Contains
// answers from a lazily built roaring bitmap of the term's doc ids.
// Below the threshold it binary-searches the sorted slice, which is
// already cache-friendly enough that a bitmap only adds overhead.
const BitmapThreshold = 2000

// Term is one vocabulary entry: a token text plus its posting lists.
// Invariants (spec.md §3): DocIDs is strictly increasing, len(DocIDs)
// == len(Weights), and DF == StoppedDF implies both slices are empty.
type Term struct {
	Text string
	DF   int // document frequency; StoppedDF once stopped

	DocIDs  []int32
	Weights []byte // raw TF pre-normalization, quantized unit-vector component after

	bitmap *roaring.Bitmap // lazily built/invalidated membership cache
}

// NewTerm creates an empty term.
func NewTerm(text string) *Term {
	return &Term{Text: text}
}

// IsStopped reports whether the term has been marked as a stop term.
func (t *Term) IsStopped() bool { return t.DF == StoppedDF }

// FirstCycleAdd implements Phase A posting construction for one
// occurrence of the term in a document during a given field, applying
// the exact semantics of spec.md §4.3:
//
//   - a stopped term is a no-op;
//   - a new document id gets a fresh posting with the rounded field
//     weight (clamped to 255);
//   - a repeated document id either bumps the running weight (clamped)
//     when duplicate suppression is off, or is ignored when it is on;
//   - crossing stopTermLimit postings clears everything and marks the
//     term stopped.
func (t *Term) FirstCycleAdd(docID int32, fieldWeight float64, suppressDuplicates bool, stopTermLimit int) {
	if t.IsStopped() {
		return
	}

	weightDelta := clampByte(int(roundHalfAwayFromZero(fieldWeight)))

	if n := len(t.DocIDs); n > 0 && t.DocIDs[n-1] == docID {
		// Same document as the last posting: DF already counts it as one
		// distinct document, so neither branch touches DF.
		if !suppressDuplicates {
			t.Weights[n-1] = clampByteSum(t.Weights[n-1], weightDelta)
		}
		return
	}

	if len(t.DocIDs) >= stopTermLimit {
		t.stop()
		return
	}

	t.DocIDs = append(t.DocIDs, docID)
	t.Weights = append(t.Weights, weightDelta)
	t.DF++
	t.bitmap = nil

	if len(t.DocIDs) >= stopTermLimit {
		t.stop()
	}
}

func (t *Term) stop() {
	t.DF = StoppedDF
	t.DocIDs = nil
	t.Weights = nil
	t.bitmap = nil
}

// SetWeight overwrites the weight at posting index i (used by Phase B
// two-pass normalization to write back the quantized unit-vector
// component in place, spec.md §4.3 step 3).
func (t *Term) SetWeight(i int, w byte) {
	t.Weights[i] = w
}

// Bitmap returns (building if needed) a roaring bitmap of this term's
// document ids, used by Contains once the posting count reaches
// BitmapThreshold. Below the threshold Contains binary-searches the
// sorted DocIDs slice directly.
func (t *Term) Bitmap() *roaring.Bitmap {
	if t.bitmap != nil {
		return t.bitmap
	}
	bm := roaring.New()
	for _, id := range t.DocIDs {
		bm.Add(uint32(id))
	}
	t.bitmap = bm
	return bm
}

// Contains reports whether docID has a posting in this term.
func (t *Term) Contains(docID int32) bool {
	if t.IsStopped() {
		return false
	}
	if len(t.DocIDs) >= BitmapThreshold {
		return t.Bitmap().Contains(uint32(docID))
	}
	i := sort.Search(len(t.DocIDs), func(i int) bool { return t.DocIDs[i] >= docID })
	return i < len(t.DocIDs) && t.DocIDs[i] == docID
}

// WeightAt returns the weight for docID and whether it was found.
func (t *Term) WeightAt(docID int32) (byte, bool) {
	i := sort.Search(len(t.DocIDs), func(i int) bool { return t.DocIDs[i] >= docID })
	if i < len(t.DocIDs) && t.DocIDs[i] == docID {
		return t.Weights[i], true
	}
	return 0, false
}

func clampByte(v int) byte {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return byte(v)
}

func clampByteSum(a, b byte) byte {
	sum := int(a) + int(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

func roundHalfAwayFromZero(v float64) float64 {
	if v < 0 {
		return -roundHalfAwayFromZero(-v)
	}
	frac := v - float64(int(v))
	if frac >= 0.5 {
		return float64(int(v)) + 1
	}
	return float64(int(v))
}
