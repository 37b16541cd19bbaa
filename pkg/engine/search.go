package engine

import (
	"sort"
	"time"

	"github.com/lofcz/infidex/internal/consolidate"
	"github.com/lofcz/infidex/internal/coverage"
	"github.com/lofcz/infidex/internal/tokenizer"
	"github.com/lofcz/infidex/internal/vectorretrieval"
	"github.com/lofcz/infidex/pkg/document"
	"github.com/lofcz/infidex/pkg/facets"
	"github.com/lofcz/infidex/pkg/filterscript"
)

// candidate tracks one document key's state through the pipeline
// before Stage-2 coverage scoring and fusion.
type candidate struct {
	key     document.Key
	stage1  byte
	source  coverage.Source
}

// deadlineCheckInterval bounds how often the final scoring loop polls
// the wall clock, per spec.md §5 "no other cooperative yield points
// inside scoring loops".
const deadlineCheckInterval = 256

// Search runs the full pipeline of spec.md §4.4-§4.10 against q and
// returns a ranked, optionally filtered/faceted/sorted Result. A
// search attempted before the index has ever been normalized returns
// an empty Result rather than an error (spec.md §7 "IndexNotReady").
func (e *Engine) Search(q Query) Result {
	start := time.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.index.IsIndexed() {
		return Result{}
	}

	// A timeout of 0 sets no deadline.
	timeoutMs := q.clampedTimeoutMs()
	deadline := start.Add(time.Duration(timeoutMs) * time.Millisecond)

	normalizedQuery := e.norm.Normalize(q.Text)
	if normalizedQuery == "" {
		return e.searchEmptyQueryLocked(q, start)
	}

	setup := coverage.DefaultSetup(e.cfg.WordMatcher)
	if q.CoverageSetup != nil {
		setup = *q.CoverageSetup
	}
	setup.TermDF = func(word string) int {
		t := e.index.Term(word)
		if t == nil {
			return 0
		}
		return t.DF
	}
	setup.TotalDocs = e.docs.Len()

	candidates := make(map[document.Key]*candidate)

	var stage1 vectorretrieval.Result
	if q.EnableWAND {
		stage1 = vectorretrieval.RetrieveWAND(normalizedQuery, e.index, e.docs, e.docs.Len(), q.MaxNumberOfRecordsToReturn)
	} else {
		stage1 = vectorretrieval.Retrieve(normalizedQuery, e.index, e.docs, e.docs.Len())
	}
	for _, entry := range stage1.Scores.All() {
		candidates[entry.DocumentKey] = &candidate{key: entry.DocumentKey, stage1: entry.Score, source: coverage.FromStage1}
	}

	queryWords := tokenizer.OrderedWords(normalizedQuery, e.cfg.WordMatcher.MinWordSize)

	if e.wm != nil {
		seen := make(map[int32]bool)
		for _, w := range queryWords {
			ids := append([]int32(nil), e.wm.Exact(w)...)
			if e.cfg.WordMatcher.EnableLD1 {
				ids = append(ids, e.wm.LD1(w)...)
			}
			if e.cfg.WordMatcher.EnableAffix {
				ids = append(ids, e.wm.Prefix(w)...)
				ids = append(ids, e.wm.Suffix(w)...)
			}
			for _, id := range ids {
				if seen[id] {
					continue
				}
				seen[id] = true
				doc, ok := e.docs.Get(int(id))
				if !ok || doc.Deleted {
					continue
				}
				if _, exists := candidates[doc.Key]; !exists {
					candidates[doc.Key] = &candidate{key: doc.Key, source: coverage.FromWordMatcher}
				}
			}
		}
	}

	totalCandidates := len(candidates)
	scored := make([]consolidate.Candidate, 0, len(candidates))
	cache := coverage.NewLCSCache(len(candidates))

	var coverageEligible map[document.Key]bool
	if q.EnableCoverage && q.CoverageDepth > 0 && len(candidates) > q.CoverageDepth {
		coverageEligible = topCandidatesByStage1(candidates, q.CoverageDepth)
	}

	didTimeOut := false
	i := 0
	for key, c := range candidates {
		if timeoutMs > 0 && i%deadlineCheckInterval == 0 && time.Now().After(deadline) {
			didTimeOut = true
			break
		}
		i++

		finalScore := c.stage1
		wordHits, lcs := 0, 0

		doCoverage := q.EnableCoverage && (coverageEligible == nil || coverageEligible[key])
		if doCoverage {
			baseDoc, ok := e.docs.GetByKey(key)
			if !ok {
				continue
			}
			bestDoc, ok2 := consolidate.ResolveBestSegmentDoc(e.docs, key, stage1.BestSegments, baseDoc.BaseID())
			if !ok2 {
				bestDoc = baseDoc
			}
			docWords := tokenizer.OrderedWords(bestDoc.IndexedText, setup.MinWordSize)
			res := coverage.Score(setup, queryWords, docWords, normalizedQuery, bestDoc.IndexedText, cache, i-1)
			finalScore = coverage.Fuse(c.source, c.stage1, res.Coverage)
			wordHits, lcs = res.WordHits, res.LCS
		} else if c.source == coverage.FromWordMatcher {
			continue
		}

		scored = append(scored, consolidate.Candidate{DocumentKey: key, Score: finalScore, WordHits: wordHits, LCS: lcs})
	}

	scored = e.applyFilterLocked(q, scored)
	scored = e.applyBoostsLocked(q, scored)

	ranked := consolidate.Consolidate(scored)

	truncationIndex := -1
	if q.EnableTruncation {
		truncationIndex = consolidate.TruncationIndex(consolidate.TruncationSetup{
			Enabled:                     true,
			CoverageMinWordHitsAbs:      q.CoverageMinWordHitsAbs,
			CoverageMinWordHitsRelative: q.CoverageMinWordHitsRelative,
			TruncationScore:             q.TruncationScore,
		}, ranked)
		if truncationIndex >= 0 && truncationIndex+1 < len(ranked) {
			ranked = ranked[:truncationIndex+1]
		}
	}

	e.applySortLocked(q, ranked)

	final := consolidate.TopK(ranked, q.MaxNumberOfRecordsToReturn)

	result := Result{
		Records:         toRecords(final),
		TruncationIndex: truncationIndex,
		TruncationScore: q.TruncationScore,
		DidTimeOut:      didTimeOut,
		TotalCandidates: totalCandidates,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}
	if q.EnableFacets {
		result.Facets = e.computeFacetsLocked(final)
	}
	return result
}

func (e *Engine) searchEmptyQueryLocked(q Query, start time.Time) Result {
	if !q.EnableFacets {
		return Result{ExecutionTimeMs: time.Since(start).Milliseconds()}
	}

	var cf *filterscript.CompiledFilter
	if q.Filter != nil {
		var err error
		cf, err = e.filterCache.CompileCached(q.Filter)
		if err != nil {
			return Result{ExecutionTimeMs: time.Since(start).Milliseconds()}
		}
	}

	vm := filterscript.NewVM()
	var ranked []consolidate.Candidate
	for i := range e.docs.All() {
		doc, ok := e.docs.Get(i)
		if !ok || doc.Deleted {
			continue
		}
		if cf != nil {
			matched, _ := vm.Run(cf, fieldAccessor{doc: doc})
			if !matched {
				continue
			}
		}
		ranked = append(ranked, consolidate.Candidate{DocumentKey: doc.Key, Score: 255})
	}

	ranked = consolidate.Consolidate(ranked)
	e.applySortLocked(q, ranked)
	final := consolidate.TopK(ranked, q.MaxNumberOfRecordsToReturn)

	return Result{
		Records:         toRecords(final),
		TruncationIndex: -1,
		TotalCandidates: len(ranked),
		Facets:          e.computeFacetsLocked(final),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}
}

func (e *Engine) applyFilterLocked(q Query, scored []consolidate.Candidate) []consolidate.Candidate {
	if q.Filter == nil {
		return scored
	}
	cf, err := e.filterCache.CompileCached(q.Filter)
	if err != nil {
		e.logger.Warnf("filter compile failed: %v", err)
		return nil
	}
	vm := filterscript.NewVM()
	out := scored[:0]
	for _, c := range scored {
		doc, ok := e.docs.GetByKey(c.DocumentKey)
		if !ok {
			continue
		}
		if matched, _ := vm.Run(cf, fieldAccessor{doc: doc}); matched {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) applyBoostsLocked(q Query, scored []consolidate.Candidate) []consolidate.Candidate {
	if !q.EnableBoost || len(q.Boosts) == 0 {
		return scored
	}
	for i, c := range scored {
		doc, ok := e.docs.GetByKey(c.DocumentKey)
		if !ok {
			continue
		}
		scored[i].Score = filterscript.ApplyBoosts(q.Boosts, fieldAccessor{doc: doc}, c.Score)
	}
	return scored
}

func (e *Engine) applySortLocked(q Query, ranked []consolidate.Candidate) {
	if q.SortBy == "" {
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
		return
	}
	dir := facets.Ascending
	if !q.SortAscending {
		dir = facets.Descending
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		vi := sortValue(e.docs, ranked[i].DocumentKey, q.SortBy)
		vj := sortValue(e.docs, ranked[j].DocumentKey, q.SortBy)
		return facets.Less(vi, vj, dir)
	})
}

func (e *Engine) computeFacetsLocked(final []consolidate.Candidate) map[string][]facets.Count {
	docs := make([]*document.Document, 0, len(final))
	for _, c := range final {
		if d, ok := e.docs.GetByKey(c.DocumentKey); ok {
			docs = append(docs, d)
		}
	}
	return facets.Compute(docs, facetableFieldNames(docs))
}

// topCandidatesByStage1 returns the set of depth candidates with the
// highest Stage-1 score, used to bound Stage-2 coverage scoring cost
// on large candidate sets (Query.CoverageDepth).
func topCandidatesByStage1(candidates map[document.Key]*candidate, depth int) map[document.Key]bool {
	ranked := make([]*candidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].stage1 > ranked[j].stage1 })

	out := make(map[document.Key]bool, depth)
	for i := 0; i < depth && i < len(ranked); i++ {
		out[ranked[i].key] = true
	}
	return out
}

func toRecords(candidates []consolidate.Candidate) []Record {
	out := make([]Record, len(candidates))
	for i, c := range candidates {
		out[i] = Record{DocumentKey: c.DocumentKey, Score: c.Score}
	}
	return out
}
