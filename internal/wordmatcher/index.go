package wordmatcher

import (
	"sort"
	"strings"

	"github.com/lofcz/infidex/pkg/config"
	"github.com/lofcz/infidex/pkg/fst"
)

// Index is the frozen, read-only, thread-safe word matcher produced by
// Builder.Freeze.
type Index struct {
	setup      config.WordMatcherSetup
	vocabulary []string
	postings   map[string][]int32

	forward *fst.IndexReader // prefix lookup
	reverse *fst.IndexReader // suffix lookup, over reversed words

	deletes map[string][]string // single-delete variant -> vocabulary words (LD1)
}

// Exact returns the internal document ids of documents containing word
// verbatim (spec.md §4.6 "Exact").
func (idx *Index) Exact(word string) []int32 {
	return idx.postings[strings.ToLower(word)]
}

// LD1 returns the internal document ids of words within Levenshtein
// distance 1 of word, via the symmetric-delete scheme: enumerate
// single-character deletions of both the query and the vocabulary
// term, and accept any pair whose deleted forms coincide and whose
// actual distance validates to exactly 1 (spec.md §4.6 "LD1").
func (idx *Index) LD1(word string) []int32 {
	if idx.deletes == nil {
		return nil
	}
	word = strings.ToLower(word)

	variants := append(deletesOf(word), word)
	seenWord := make(map[string]bool)
	seenID := make(map[int32]bool)
	var docIDs []int32

	for _, v := range variants {
		for _, cand := range idx.deletes[v] {
			if cand == word || seenWord[cand] {
				continue
			}
			seenWord[cand] = true
			if d, ok := distanceAtMost1(word, cand); ok && d == 1 {
				for _, id := range idx.postings[cand] {
					if !seenID[id] {
						seenID[id] = true
						docIDs = append(docIDs, id)
					}
				}
			}
		}
	}

	sort.Slice(docIDs, func(a, b int) bool { return docIDs[a] < docIDs[b] })
	return docIDs
}

// Prefix returns the internal document ids of vocabulary words starting
// with prefix, gated by WordMatcherSetup.EnableAffix (spec.md §4.6
// "Affix").
func (idx *Index) Prefix(prefix string) []int32 {
	if !idx.setup.EnableAffix || idx.forward == nil {
		return nil
	}
	_, slots, err := idx.forward.SearchPrefix([]byte(strings.ToLower(prefix)))
	if err != nil {
		return nil
	}
	return idx.resolveSlots(slots)
}

// Suffix returns the internal document ids of vocabulary words ending
// with suffix, via the reverse FST (spec.md §4.6 "Affix").
func (idx *Index) Suffix(suffix string) []int32 {
	if !idx.setup.EnableAffix || idx.reverse == nil {
		return nil
	}
	_, slots, err := idx.reverse.SearchPrefix([]byte(reverseString(strings.ToLower(suffix))))
	if err != nil {
		return nil
	}
	return idx.resolveSlots(slots)
}

func (idx *Index) resolveSlots(slots []uint64) []int32 {
	seen := make(map[int32]bool)
	var docIDs []int32
	for _, slot := range slots {
		if slot >= uint64(len(idx.vocabulary)) {
			continue
		}
		for _, id := range idx.postings[idx.vocabulary[slot]] {
			if !seen[id] {
				seen[id] = true
				docIDs = append(docIDs, id)
			}
		}
	}
	sort.Slice(docIDs, func(a, b int) bool { return docIDs[a] < docIDs[b] })
	return docIDs
}

// VocabSize returns the number of distinct words the index covers.
func (idx *Index) VocabSize() int { return len(idx.vocabulary) }

func buildDeletes(words []string) map[string][]string {
	out := make(map[string][]string)
	for _, w := range words {
		out[w] = append(out[w], w)
		for _, v := range deletesOf(w) {
			out[v] = append(out[v], w)
		}
	}
	return out
}

func deletesOf(word string) []string {
	r := []rune(word)
	if len(r) == 0 {
		return nil
	}
	out := make([]string, 0, len(r))
	for i := range r {
		variant := make([]rune, 0, len(r)-1)
		variant = append(variant, r[:i]...)
		variant = append(variant, r[i+1:]...)
		out = append(out, string(variant))
	}
	return out
}

// distanceAtMost1 reports the Levenshtein distance between a and b when
// it is 0 or 1. Duplicated in miniature from internal/coverage rather
// than shared, since both copies are a handful of lines and this keeps
// the two packages decoupled.
func distanceAtMost1(a, b string) (int, bool) {
	ra, rb := []rune(a), []rune(b)
	if string(ra) == string(rb) {
		return 0, true
	}
	la, lb := len(ra), len(rb)
	if la == lb {
		diff := 0
		for i := range ra {
			if ra[i] != rb[i] {
				diff++
				if diff > 1 {
					return 0, false
				}
			}
		}
		return diff, diff <= 1
	}
	if abs(la-lb) != 1 {
		return 0, false
	}
	long, short := ra, rb
	if la < lb {
		long, short = rb, ra
	}
	i, j := 0, 0
	skipped := false
	for i < len(long) && j < len(short) {
		if long[i] == short[j] {
			i++
			j++
			continue
		}
		if skipped {
			return 0, false
		}
		skipped = true
		i++
	}
	return 1, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
