// Package wordmatcher builds and serves the exact / edit-distance-1 /
// affix vocabulary lookups of spec.md §4.6: a build-time trie collects
// the distinct words and a map holds each word's posting list; Freeze
// turns them into a
// forward and a reverse FST for prefix/suffix lookup plus a symmetric-
// delete dictionary for LD1 matching. Every lookup returns internal
// document ids, not document keys; resolving to keys is the caller's
// job (pkg/engine), via the document collection.
package wordmatcher

import (
	"sort"
	"strings"

	trie "github.com/derekparker/trie/v3"

	"github.com/lofcz/infidex/pkg/config"
	"github.com/lofcz/infidex/pkg/fst"
)

// Builder accumulates (word, docID) pairs during indexing for a build-
// then-freeze FST pipeline: the trie records the build-time vocabulary,
// whose Keys() Freeze sorts once for the FST insert pass, and the
// postings map holds each word's document ids.
type Builder struct {
	setup      config.WordMatcherSetup
	t          *trie.Trie[struct{}]
	postings   map[string][]int32
	isStopword func(string) bool
}

// NewBuilder creates an empty word-matcher builder for setup. isStopword,
// when non-nil, is consulted by AddDocument to exclude seed-list stop
// words from the vocabulary; pass nil to build over every word in the
// configured size band.
func NewBuilder(setup config.WordMatcherSetup, isStopword func(string) bool) *Builder {
	return &Builder{
		setup:      setup,
		t:          trie.New[struct{}](),
		postings:   make(map[string][]int32),
		isStopword: isStopword,
	}
}

// AddDocument folds a document's whole-word tokens into the accumulator,
// skipping words outside the configured size band and, when isStopword is
// set, seed-list stop words (spec.md §4.6; distinct from the index's
// corpus-adaptive StopTermLimit detection, which gates on observed
// frequency rather than a static list).
func (b *Builder) AddDocument(docID int32, words []string) {
	for _, w := range words {
		n := len([]rune(w))
		if n < b.setup.MinWordSize || n > b.setup.MaxWordSize {
			continue
		}
		word := strings.ToLower(w)
		if b.isStopword != nil && b.isStopword(word) {
			continue
		}
		ids := b.postings[word]
		if len(ids) == 0 {
			b.t.Add(word, struct{}{})
		}
		if len(ids) == 0 || ids[len(ids)-1] != docID {
			b.postings[word] = append(ids, docID)
		}
	}
}

// Freeze builds the forward/reverse FSTs and (when LD1 is enabled) the
// symmetric-delete dictionary, producing a read-only Index.
func (b *Builder) Freeze() (*Index, error) {
	words := b.t.Keys()
	sort.Strings(words)

	idx := &Index{
		setup:      b.setup,
		vocabulary: words,
		postings:   make(map[string][]int32, len(words)),
	}

	forwardBuilder, err := fst.NewIndexBuilder()
	if err != nil {
		return nil, err
	}
	type reversePair struct {
		reversed string
		slot     uint64
	}
	reversePairs := make([]reversePair, 0, len(words))

	for i, w := range words {
		ids := append([]int32(nil), b.postings[w]...)
		sort.Slice(ids, func(a, c int) bool { return ids[a] < ids[c] })
		idx.postings[w] = ids

		if err := forwardBuilder.Insert([]byte(w), uint64(i)); err != nil {
			return nil, err
		}
		reversePairs = append(reversePairs, reversePair{reversed: reverseString(w), slot: uint64(i)})
	}

	forwardBytes, err := forwardBuilder.Finish()
	if err != nil {
		return nil, err
	}
	idx.forward, err = fst.OpenIndex(forwardBytes)
	if err != nil {
		return nil, err
	}

	sort.Slice(reversePairs, func(a, c int) bool { return reversePairs[a].reversed < reversePairs[c].reversed })
	reverseBuilder, err := fst.NewIndexBuilder()
	if err != nil {
		return nil, err
	}
	for _, p := range reversePairs {
		if err := reverseBuilder.Insert([]byte(p.reversed), p.slot); err != nil {
			return nil, err
		}
	}
	reverseBytes, err := reverseBuilder.Finish()
	if err != nil {
		return nil, err
	}
	idx.reverse, err = fst.OpenIndex(reverseBytes)
	if err != nil {
		return nil, err
	}

	if b.setup.EnableLD1 {
		idx.deletes = buildDeletes(words)
	}

	return idx, nil
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
