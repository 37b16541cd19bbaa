package consolidate

// TruncationSetup carries the truncation parameters of spec.md §4.7.
type TruncationSetup struct {
	Enabled                     bool
	CoverageMinWordHitsAbs      int
	CoverageMinWordHitsRelative int
	TruncationScore             byte
}

// TruncationIndex scans a score-descending candidate list from tail to
// head and returns the largest index worth keeping: one with
// sufficient word hits, any LCS overlap at all, or a score at or above
// TruncationScore. Returns -1 when truncation is disabled or no index
// qualifies (spec.md §4.7 "Truncation").
func TruncationIndex(setup TruncationSetup, ranked []Candidate) int {
	if !setup.Enabled || len(ranked) == 0 {
		return -1
	}

	maxWordHits := 0
	for _, c := range ranked {
		if c.WordHits > maxWordHits {
			maxWordHits = c.WordHits
		}
	}

	minHits := setup.CoverageMinWordHitsAbs
	if rel := maxWordHits - setup.CoverageMinWordHitsRelative; rel > minHits {
		minHits = rel
	}

	for i := len(ranked) - 1; i >= 0; i-- {
		c := ranked[i]
		if c.WordHits >= minHits || c.LCS > 0 || c.Score >= setup.TruncationScore {
			return i
		}
	}
	return -1
}
