// Package index implements the inverted index and its two-pass TF·IDF
// normalization (spec.md §4.3): Phase A streaming counting and posting
// construction, Phase B vector-length computation and in-place weight
// quantization.
package index

import (
	"math"
	"sort"
	"sync"

	"github.com/lofcz/infidex/internal/postings"
	"github.com/lofcz/infidex/internal/tokenizer"
	"github.com/lofcz/infidex/pkg/config"
	"github.com/lofcz/infidex/pkg/document"
	"github.com/lofcz/infidex/pkg/field"
)

// Index owns the term vocabulary and backs both Stage-1 retrieval and
// the word matcher's vocabulary build.
type Index struct {
	Config    config.Config
	Tokenizer *tokenizer.Tokenizer

	terms map[string]*postings.Term

	// isIndexed is false until CalculateWeights has run at least once
	// since the last structural change; searches treat a not-indexed
	// engine as empty (spec.md §7 "IndexNotReady").
	isIndexed bool

	// DoLock gates the internal reader/writer lock used when multiple
	// goroutines call IndexDocument concurrently (spec.md §5); when
	// false (the common single-writer-indexing case) no locking is
	// performed here at all, matching the teacher's TermCollection
	// DoLock flag.
	DoLock bool
	mu     sync.RWMutex
}

// New creates an empty index for the given configuration.
func New(cfg config.Config, norm *tokenizer.Normalizer) *Index {
	return &Index{
		Config:    cfg,
		Tokenizer: tokenizer.New(norm, cfg),
		terms:     make(map[string]*postings.Term),
	}
}

// IsIndexed reports whether weights have been computed since the last
// structural mutation.
func (idx *Index) IsIndexed() bool {
	if idx.DoLock {
		idx.mu.RLock()
		defer idx.mu.RUnlock()
	}
	return idx.isIndexed
}

func (idx *Index) lockWrite() func() {
	if !idx.DoLock {
		return func() {}
	}
	idx.mu.Lock()
	return idx.mu.Unlock
}

func (idx *Index) term(text string) *postings.Term {
	t, ok := idx.terms[text]
	if !ok {
		t = postings.NewTerm(text)
		idx.terms[text] = t
	}
	return t
}

// Term returns the term for a token text, or nil if it has never been
// seen. Used read-only by Stage-1 retrieval and the word matcher build.
func (idx *Index) Term(text string) *postings.Term {
	return idx.terms[text]
}

// VocabSize returns the number of distinct terms (including stopped
// ones) observed so far.
func (idx *Index) VocabSize() int {
	return len(idx.terms)
}

// IndexDocument runs Phase A for a single document: tokenizes its
// concatenated field text and folds every token into its Term via
// FirstCycleAdd. It defers renormalization to the next CalculateWeights
// call (spec.md §4.3, §6 "IndexDocument").
func (idx *Index) IndexDocument(doc *document.Document) {
	unlock := idx.lockWrite()
	defer unlock()

	idx.indexDocumentLocked(doc)
	idx.isIndexed = false
}

func (idx *Index) indexDocumentLocked(doc *document.Document) {
	text, bounds := doc.Fields.Concatenate(idx.Config.FieldWeights)
	doc.IndexedText = text
	doc.FieldBoundaries = bounds

	normalized := idx.Tokenizer.Normalizer.Normalize(text)
	tokens := idx.Tokenizer.Tokenize(normalized, doc.SegmentNumber > 0, false)

	for _, tok := range tokens {
		weight := fieldWeightAt(bounds, tok.Position)
		term := idx.term(tok.Text)
		term.FirstCycleAdd(int32(doc.Id), weight, idx.Config.Tokenizer.SuppressDuplicates, idx.Config.StopTermLimit)
	}
}

// fieldWeightAt returns the weight of the field boundary covering
// position, or 1.0 if position precedes every boundary (shouldn't
// normally happen, since Concatenate always records a boundary at 0).
func fieldWeightAt(bounds []field.FieldBoundary, position int) float64 {
	w := 1.0
	for _, b := range bounds {
		if b.Position > position {
			break
		}
		w = b.Weight
	}
	return w
}

// IndexDocuments runs IndexDocument over every doc, invoking progress
// after each document (for caller-driven cancellation/progress UI;
// progress may be nil). This does not itself call CalculateWeights:
// callers batch-ingest then normalize once (spec.md §6).
func (idx *Index) IndexDocuments(docs []*document.Document, progress func(done, total int) bool) {
	unlock := idx.lockWrite()
	defer unlock()

	for i, doc := range docs {
		idx.indexDocumentLocked(doc)
		if progress != nil && !progress(i+1, len(docs)) {
			idx.isIndexed = false
			return
		}
	}
	idx.isIndexed = false
}

// CalculateWeights runs Phase B: two-pass TF·IDF normalization across
// every non-stop term (spec.md §4.3). cancelled, if non-nil, is polled
// before the normalization phase begins (spec.md §5 "Suspension
// points"); a true result aborts without marking the index indexed.
func (idx *Index) CalculateWeights(totalDocs int, cancelled func() bool) {
	unlock := idx.lockWrite()
	defer unlock()

	if cancelled != nil && cancelled() {
		return
	}

	n := float64(totalDocs)
	vectorLengthSq := make(map[int32]float64)

	// Pass 1: accumulate squared TF·IDF weight per document.
	type rawWeight struct {
		term    *postings.Term
		weights []float64
	}
	raw := make([]rawWeight, 0, len(idx.terms))

	for _, t := range idx.terms {
		if t.IsStopped() || len(t.DocIDs) == 0 {
			continue
		}
		df := float64(len(t.DocIDs))
		ws := make([]float64, len(t.DocIDs))
		for i, docID := range t.DocIDs {
			tf := float64(t.Weights[i])
			if tf <= 0 {
				continue
			}
			w := 1.0 + math.Log10(n*tf/df)
			if w < 0 {
				w = 0
			}
			ws[i] = w
			vectorLengthSq[docID] += w * w
		}
		raw = append(raw, rawWeight{term: t, weights: ws})
	}

	vectorLength := make(map[int32]float64, len(vectorLengthSq))
	for docID, sq := range vectorLengthSq {
		vectorLength[docID] = math.Sqrt(sq)
	}

	// Pass 2: quantize w/norm to 0..255 and store back in place.
	for _, rw := range raw {
		for i, docID := range rw.term.DocIDs {
			norm := vectorLength[docID]
			if norm <= 0 {
				rw.term.SetWeight(i, 0)
				continue
			}
			ratio := rw.weights[i] / norm
			rw.term.SetWeight(i, quantize(ratio))
		}
	}

	idx.isIndexed = true
}

// quantize maps a unit-vector component in [0,1] to a 0..255 byte.
func quantize(ratio float64) byte {
	if ratio <= 0 {
		return 0
	}
	if ratio >= 1 {
		return 255
	}
	return byte(math.Round(ratio * 255))
}

// AllTerms returns the live term table, used only by internal/persist
// to dump postings. Callers must treat the result as read-only.
func (idx *Index) AllTerms() map[string]*postings.Term {
	return idx.terms
}

// RestoreTerm installs a term reconstructed from a persisted dump,
// used only by internal/persist.Load.
func (idx *Index) RestoreTerm(t *postings.Term) {
	idx.terms[t.Text] = t
}

// MarkIndexed sets the isIndexed flag directly, used only by
// internal/persist.Load to restore a dump's Phase B state without
// re-running CalculateWeights.
func (idx *Index) MarkIndexed(v bool) {
	idx.isIndexed = v
}

// AllTermsSorted returns every non-stop term text in ascending order.
func (idx *Index) AllTermsSorted() []string {
	out := make([]string, 0, len(idx.terms))
	for text, t := range idx.terms {
		if !t.IsStopped() {
			out = append(out, text)
		}
	}
	sort.Strings(out)
	return out
}
