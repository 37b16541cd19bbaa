// Package coverage implements Stage-2 coverage scoring (spec.md §4.5):
// five complementary lexical overlap algorithms between a query and a
// candidate document's best-segment text, an LCS fallback backed by a
// per-search cache, and the score-fusion rule combining Stage-1 and
// Stage-2 scores into one final byte.
package coverage

import "github.com/lofcz/infidex/pkg/config"

// Setup toggles which of the five algorithms run for a search, mirroring
// spec.md §4.5's "each algorithm can be independently enabled" clause.
type Setup struct {
	EnableExactWholeWord bool
	EnableJoinedSplit    bool
	EnableFuzzy          bool
	EnablePrefixSuffix   bool
	EnableLCS            bool

	// CoverWholeQuery gates the LCS fallback entirely; when false the
	// LCS contribution is zeroed even if EnableLCS is set (spec.md §4.5
	// step 5).
	CoverWholeQuery bool

	MinWordSize            int
	LevenshteinMaxWordSize int

	// EnableProximity and EnableEntropyWeighting are SPEC_FULL.md
	// supplements, off by default so the default pipeline matches
	// spec.md §4.5 exactly.
	EnableProximity        bool
	EnableEntropyWeighting bool

	// TermDF and TotalDocs feed EnableEntropyWeighting; TermDF returns
	// a query word's document frequency (0 if unseen), TotalDocs is
	// the corpus size. Both are ignored when EnableEntropyWeighting is
	// false. Set by pkg/engine, which owns the term vocabulary.
	TermDF    func(word string) int
	TotalDocs int
}

// DefaultSetup derives a Setup from a resolved WordMatcherSetup: fuzzy
// and prefix/suffix coverage track whether the word matcher itself has
// LD1/affix lookups enabled, since there is no point scoring overlap
// modes the word matcher can never surface candidates for.
func DefaultSetup(wm config.WordMatcherSetup) Setup {
	return Setup{
		EnableExactWholeWord:   true,
		EnableJoinedSplit:      true,
		EnableFuzzy:            wm.EnableLD1,
		EnablePrefixSuffix:     wm.EnableAffix,
		EnableLCS:              true,
		CoverWholeQuery:        true,
		MinWordSize:            wm.MinWordSize,
		LevenshteinMaxWordSize: wm.LevenshteinMaxWordSize,
	}
}
