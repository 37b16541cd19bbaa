// Package consolidate implements spec.md §4.7's segment consolidation,
// truncation, and top-K selection, plus the §4.9 best-segment lookup
// that ties a document family's Stage-1 winner to its Stage-2 text.
package consolidate

import (
	"sort"

	"github.com/lofcz/infidex/pkg/document"
)

// Candidate is one scored document after Stage-1/Stage-2 fusion,
// carrying the coverage-derived fields truncation needs.
type Candidate struct {
	DocumentKey document.Key
	Score       byte
	WordHits    int
	LCS         int
}

// Consolidate groups candidates by DocumentKey, keeping the
// highest-scoring entry per key (spec.md §4.7 "Segment consolidation"),
// and returns them sorted score-descending, ties in first-seen order.
func Consolidate(entries []Candidate) []Candidate {
	best := make(map[document.Key]Candidate, len(entries))
	order := make([]document.Key, 0, len(entries))

	for _, e := range entries {
		cur, ok := best[e.DocumentKey]
		if !ok {
			best[e.DocumentKey] = e
			order = append(order, e.DocumentKey)
			continue
		}
		if e.Score > cur.Score {
			best[e.DocumentKey] = e
		}
	}

	out := make([]Candidate, len(order))
	for i, k := range order {
		out[i] = best[k]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// TopK clips a score-descending candidate list to at most k entries.
func TopK(ranked []Candidate, k int) []Candidate {
	if k <= 0 || k >= len(ranked) {
		return ranked
	}
	return ranked[:k]
}

// ResolveBestSegmentDoc returns the document Stage-2 should score for
// key: the segment recorded as the family's Stage-1 winner in
// bestSegments, falling back to the key's primary document when no
// entry was recorded (spec.md §4.9).
func ResolveBestSegmentDoc(docs *document.Collection, key document.Key, bestSegments map[int]int32, baseID int) (*document.Document, bool) {
	if seg, ok := bestSegments[baseID]; ok {
		if d, ok := docs.GetSegment(key, seg); ok {
			return d, true
		}
	}
	return docs.GetByKey(key)
}
