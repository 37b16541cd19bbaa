package vectorretrieval

import (
	"math"

	"github.com/lofcz/infidex/pkg/document"
	"github.com/lofcz/infidex/pkg/index"
)

// Result is the Stage-1 output: a bucketed candidate list plus, per
// document family, the segment number that produced the family's
// highest score (spec.md §4.4, §4.9).
type Result struct {
	Scores       *ScoreArray
	BestSegments map[int]int32 // baseId -> segment number
}

// Retrieve runs the full Stage-1 procedure for normalized query text
// against idx, scoring every document in docs. totalDocs is the corpus
// size N used for the query-side TF·IDF weight (spec.md §4.3, §4.4).
func Retrieve(normalizedQuery string, idx *index.Index, docs *document.Collection, totalDocs int) Result {
	queryTokens := idx.Tokenizer.Tokenize(normalizedQuery, false, true)

	occurrences := make(map[string]int, len(queryTokens))
	for _, tok := range queryTokens {
		c := occurrences[tok.Text] + 1
		if c > 255 {
			c = 255
		}
		occurrences[tok.Text] = c
	}

	accum := make(map[int32]float64)
	n := float64(totalDocs)

	for text, occ := range occurrences {
		term := idx.Term(text)
		if term == nil || term.IsStopped() || len(term.DocIDs) == 0 {
			continue
		}
		df := float64(len(term.DocIDs))
		queryWeight := 1.0 + math.Log10(n*float64(occ)/df)
		if queryWeight <= 0 {
			continue
		}

		for i, docID := range term.DocIDs {
			accum[docID] += queryWeight * float64(term.Weights[i])
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

func saturateByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(math.Round(v))
}
