// Package vectorretrieval implements Stage-1 vector-space retrieval
// (spec.md §4.4): per-document TF·IDF accumulation against a query,
// the 256-bucket ScoreArray, and per-document-family best-segment
// tracking.
package vectorretrieval

import "github.com/lofcz/infidex/pkg/document"

// ScoreEntry is one scored candidate (spec.md §3).
type ScoreEntry struct {
	Score      byte
	DocumentKey document.Key
	Segment    int32
}

// ScoreArray is a bucketed multiset of score entries: one bucket per
// possible byte score value, giving O(1) insert and O(n) in-order
// top-K with ties broken by insertion order (spec.md §3, §8).
type ScoreArray struct {
	buckets [256][]ScoreEntry
	count   int
}

// NewScoreArray creates an empty ScoreArray.
func NewScoreArray() *ScoreArray {
	return &ScoreArray{}
}

// Add inserts an entry into its score's bucket.
func (s *ScoreArray) Add(key document.Key, score byte, segment int32) {
	s.buckets[score] = append(s.buckets[score], ScoreEntry{Score: score, DocumentKey: key, Segment: segment})
	s.count++
}

// Len returns the total number of entries across all buckets.
func (s *ScoreArray) Len() int { return s.count }

// GetTopK returns the k highest-scored entries, scanning buckets from
// 255 down to 0 and preserving insertion order within a bucket as the
// tie-break (spec.md §8).
func (s *ScoreArray) GetTopK(k int) []ScoreEntry {
	if k <= 0 {
		return nil
	}
	out := make([]ScoreEntry, 0, k)
	for score := 255; score >= 0; score-- {
		for _, e := range s.buckets[score] {
			out = append(out, e)
			if len(out) == k {
				return out
			}
		}
	}
	return out
}

// All returns every entry, highest score first, ties in insertion order.
func (s *ScoreArray) All() []ScoreEntry {
	return s.GetTopK(s.count)
}
