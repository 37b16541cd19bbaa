package vectorretrieval

import (
	"math"
	"sort"

	"github.com/lofcz/infidex/pkg/document"
	"github.com/lofcz/infidex/pkg/index"
)

// wandTerm is one query term's posting-list traversal state for
// max-score pruning.
type wandTerm struct {
	text        string
	queryWeight float64
	upperBound  float64 // queryWeight * 255, the max possible posting weight
}

// RetrieveWAND runs the same TF·IDF accumulation as Retrieve but
// processes terms in descending upper-bound order and stops once the
// sum of the remaining terms' upper bounds can no longer move any
// untouched document past the current k-th best score, adapted from
// pkg/qgram/wand.go's MaxScore upper-bound estimate to this package's
// term-at-a-time accumulator (the teacher's wand.go prunes a
// q-gram posting-list union; this prunes the whole-term accumulation
// loop instead of a per-document DAAT iterator, which is the shape
// Retrieve already uses).
func RetrieveWAND(normalizedQuery string, idx *index.Index, docs *document.Collection, totalDocs int, k int) Result {
	queryTokens := idx.Tokenizer.Tokenize(normalizedQuery, false, true)

	occurrences := make(map[string]int, len(queryTokens))
	for _, tok := range queryTokens {
		c := occurrences[tok.Text] + 1
		if c > 255 {
			c = 255
		}
		occurrences[tok.Text] = c
	}

	n := float64(totalDocs)
	terms := make([]wandTerm, 0, len(occurrences))
	for text, occ := range occurrences {
		term := idx.Term(text)
		if term == nil || term.IsStopped() || len(term.DocIDs) == 0 {
			continue
		}
		df := float64(len(term.DocIDs))
		qw := 1.0 + math.Log10(n*float64(occ)/df)
		if qw <= 0 {
			continue
		}
		terms = append(terms, wandTerm{text: text, queryWeight: qw, upperBound: qw * 255})
	}

	if k <= 0 {
		k = totalDocs
	}

	sort.Slice(terms, func(i, j int) bool { return terms[i].upperBound > terms[j].upperBound })

	suffix := make([]float64, len(terms)+1)
	for i := len(terms) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + terms[i].upperBound
	}

	accum := make(map[int32]float64)

	for i, wt := range terms {
		term := idx.Term(wt.text)
		for j, docID := range term.DocIDs {
			accum[docID] += wt.queryWeight * float64(term.Weights[j])
		}

		if len(accum) >= k {
			if suffix[i+1] < kthLargest(accum, k) {
				break
			}
		}
	}

	scores := NewScoreArray()
	bestSegments := make(map[int]int32)
	bestScore := make(map[int]byte)

	for docID, raw := range accum {
		doc, ok := docs.Get(int(docID))
		if !ok || doc.Deleted {
			continue
		}
		score := saturateByte(raw)
		if score == 0 {
			continue
		}

		scores.Add(doc.Key, score, doc.SegmentNumber)

		baseID := doc.BaseID()
		if score > bestScore[baseID] {
			bestScore[baseID] = score
			bestSegments[baseID] = doc.SegmentNumber
		}
	}

	return Result{Scores: scores, BestSegments: bestSegments}
}

// kthLargest returns the k-th largest value among accum's entries
// (k=1 is the max), used only to decide whether WAND can stop early;
// it runs at most once per processed term.
func kthLargest(accum map[int32]float64, k int) float64 {
	vals := make([]float64, 0, len(accum))
	for _, v := range accum {
		vals = append(vals, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(vals)))
	if k > len(vals) {
		k = len(vals)
	}
	if k == 0 {
		return 0
	}
	return vals[k-1]
}
