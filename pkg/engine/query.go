package engine

import (
	"github.com/lofcz/infidex/internal/coverage"
	"github.com/lofcz/infidex/pkg/document"
	"github.com/lofcz/infidex/pkg/facets"
	"github.com/lofcz/infidex/pkg/filterscript"
)

// Query is the enumerated configuration of a single Search call
// (spec.md §6 "Query object").
type Query struct {
	Text string

	MaxNumberOfRecordsToReturn int
	TimeOutLimitMilliseconds   int

	EnableCoverage bool
	EnableFacets   bool
	EnableBoost    bool

	// CoverageDepth caps how many Stage-1 candidates (ranked by Stage-1
	// score) receive Stage-2 coverage scoring; 0 means unlimited.
	// Candidates outside the depth keep their Stage-1 score. Bounds
	// per-query coverage cost on large candidate sets.
	CoverageDepth int

	CoverageSetup *coverage.Setup // nil uses coverage.DefaultSetup(cfg.WordMatcher)

	// EnableWAND switches Stage-1 retrieval to max-score term pruning
	// (internal/vectorretrieval.RetrieveWAND) instead of exhaustive
	// accumulation. Off by default. Terms skipped by the pruning
	// contribute nothing, so documents reached only through skipped terms
	// are absent and Stage-1 scores and ranks can differ from exhaustive
	// retrieval.
	EnableWAND bool

	EnableTruncation            bool
	TruncationScore             byte
	CoverageMinWordHitsAbs      int
	CoverageMinWordHitsRelative int

	Filter *filterscript.Filter
	Boosts []filterscript.Boost

	SortBy        string
	SortAscending bool
}

// maxTimeoutMs is the spec.md §5 clamp on TimeOutLimitMilliseconds.
const maxTimeoutMs = 10000

func (q Query) clampedTimeoutMs() int {
	if q.TimeOutLimitMilliseconds < 0 {
		return 0
	}
	if q.TimeOutLimitMilliseconds > maxTimeoutMs {
		return maxTimeoutMs
	}
	return q.TimeOutLimitMilliseconds
}

// Record is one ranked result entry.
type Record struct {
	DocumentKey document.Key
	Score       byte
}

// Result is Search's output (spec.md §6 "Result").
type Result struct {
	Records         []Record
	Facets          map[string][]facets.Count
	TruncationIndex int
	TruncationScore byte
	DidTimeOut      bool
	TotalCandidates int
	ExecutionTimeMs int64
}
