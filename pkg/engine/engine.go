// Package engine implements the public Engine API (spec.md §6):
// ingestion, weight recomputation, search, persistence and
// statistics, over the reader/writer-gated concurrency model of
// spec.md §5. This is the one package that knows both the
// document/field vocabulary and the filterscript vocabulary; every
// other package stays decoupled from its neighbors.
package engine

import (
	"github.com/lofcz/infidex/internal/tokenizer"
	"github.com/lofcz/infidex/internal/wordmatcher"
	"github.com/lofcz/infidex/pkg/config"
	"github.com/lofcz/infidex/pkg/document"
	"github.com/lofcz/infidex/pkg/filterscript"
	"github.com/lofcz/infidex/pkg/index"

	"sync"
)

// Engine is the top-level search engine instance. The zero value is
// not usable; construct with New.
type Engine struct {
	mu sync.RWMutex

	cfg   config.Config
	index *index.Index
	docs  *document.Collection
	norm  *tokenizer.Normalizer

	wm *wordmatcher.Index

	filterCache *filterscript.Cache
	logger      Logger
}

// New creates an empty engine for the given configuration, normalizer
// and optional logger (nil uses a no-op Logger).
func New(cfg config.Config, norm *tokenizer.Normalizer, logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{
		cfg:         cfg,
		index:       index.New(cfg, norm),
		docs:        document.NewCollection(),
		norm:        norm,
		filterCache: filterscript.NewCache(cfg.FilterCacheSize),
		logger:      logger,
	}
}

// IndexDocument incrementally adds one document, indexing it
// immediately but deferring renormalization to the next
// CalculateWeights (spec.md §6 "IndexDocument").
func (e *Engine) IndexDocument(doc document.Document) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.docs.Add(doc)
	d, _ := e.docs.Get(id)
	e.index.IndexDocument(d)
	e.logger.Debugf("indexed document id=%d key=%v", id, d.Key)
	return id
}

// IndexDocuments batch-ingests docs, checking cancelled every 100
// documents (spec.md §5 "Suspension points"). It does not itself call
// CalculateWeights: callers batch-ingest then normalize once.
func (e *Engine) IndexDocuments(docs []document.Document, cancelled func() bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ptrs := make([]*document.Document, 0, len(docs))
	for _, d := range docs {
		id := e.docs.Add(d)
		doc, _ := e.docs.Get(id)
		ptrs = append(ptrs, doc)
	}

	e.index.IndexDocuments(ptrs, func(done, total int) bool {
		if cancelled == nil {
			return true
		}
		if done%100 != 0 && done != total {
			return true
		}
		return !cancelled()
	})
}

// CalculateWeights runs Phase B two-pass TF·IDF normalization, then
// rebuilds the word matcher's vocabulary over the freshly-weighted
// document set.
func (e *Engine) CalculateWeights(cancelled func() bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.index.CalculateWeights(e.docs.Len(), cancelled)
	if !e.index.IsIndexed() {
		return
	}
	e.rebuildWordMatcherLocked()
}

func (e *Engine) rebuildWordMatcherLocked() {
	b := wordmatcher.NewBuilder(e.cfg.WordMatcher, e.index.Tokenizer.IsStopword)
	for _, doc := range e.docs.All() {
		if doc.Deleted {
			continue
		}
		words := tokenizer.OrderedWords(doc.IndexedText, e.cfg.WordMatcher.MinWordSize)
		b.AddDocument(int32(doc.Id), words)
	}
	idx, err := b.Freeze()
	if err != nil {
		e.logger.Errorf("word matcher build failed: %v", err)
		e.wm = nil
		return
	}
	e.wm = idx
}

// GetDocument returns a document's primary (lowest-segment,
// non-deleted) copy by key.
func (e *Engine) GetDocument(key document.Key) (*document.Document, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.docs.GetByKey(key)
}

// GetDocuments returns every non-deleted document registered under key.
func (e *Engine) GetDocuments(key document.Key) []*document.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.docs.GetAllByKey(key)
}

// GetStatistics returns the document count (soft-deleted documents
// included) and vocabulary size.
func (e *Engine) GetStatistics() (docCount int, vocabSize int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.docs.Len(), e.index.VocabSize()
}

// FilterCount returns the number of documents matching f by running the
// compiled filter over every document. The compiled filter is cached;
// the count is recomputed on every call and is not cached.
func (e *Engine) FilterCount(f *filterscript.Filter) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cf, err := e.filterCache.CompileCached(f)
	if err != nil {
		return 0, err
	}
	return filterscript.NumberOfDocumentsInFilter(cf, documentSet{docs: e.docs}), nil
}
