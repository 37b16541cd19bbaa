package coverage

import "github.com/bits-and-blooms/bitset"

// Source marks which retrieval path produced a candidate, selecting the
// score-fusion rule of spec.md §4.5 "Score fusion".
type Source int

const (
	FromWordMatcher Source = iota
	FromStage1
)

// Fuse combines a Stage-1 score s1 with a Stage-2 coverage score s2
// per the candidate's origin: word-matcher candidates use the coverage
// score outright, Stage-1 candidates keep whichever score is higher.
func Fuse(source Source, s1, s2 byte) byte {
	if source == FromWordMatcher {
		return s2
	}
	if s2 <= s1 {
		return s1
	}
	return s2
}

// Result is one candidate's Stage-2 outcome, carrying the intermediate
// wordHits/lcs values truncation needs (spec.md §4.7) alongside the
// final coverage byte.
type Result struct {
	Coverage byte
	WordHits int
	LCS      int
}

// Score runs the five coverage algorithms of spec.md §4.5 against one
// candidate's query/doc word arrays, short-circuiting as soon as the
// running sum covers the whole query. docIdx is the candidate's
// compact per-search index into cache (pass a nil cache to disable
// LCS memoization, e.g. in tests scoring a single candidate).
func Score(setup Setup, queryWords, docWords []string, normalizedQuery, bestSegmentText string, cache *LCSCache, docIdx int) Result {
	querySize := 0
	for _, w := range queryWords {
		querySize += len([]rune(w))
	}
	if querySize == 0 {
		return Result{}
	}

	qConsumed := bitset.New(uint(len(queryWords)))
	dConsumed := bitset.New(uint(len(docWords)))

	sum := 0
	orderPenalty := 0

	if setup.EnableExactWholeWord {
		s, op := exactWholeWord(queryWords, docWords, qConsumed, dConsumed)
		sum += s
		orderPenalty += op
	}
	if sum < querySize && setup.EnableJoinedSplit {
		sum += joinedSplit(queryWords, docWords, qConsumed, dConsumed)
	}
	if sum < querySize && setup.EnableFuzzy {
		sum += fuzzyLD1(queryWords, docWords, setup.MinWordSize+1, setup.LevenshteinMaxWordSize, qConsumed, dConsumed)
	}
	if sum < querySize && setup.EnablePrefixSuffix {
		sum += prefixSuffix(queryWords, docWords, qConsumed, dConsumed)
	}

	wordHits := int(qConsumed.Count())
	lcsLen := 0

	if sum == 0 && setup.EnableLCS && setup.CoverWholeQuery {
		if cache != nil {
			if cachedLCS, cachedHits, ok := cache.Get(docIdx); ok {
				lcsLen = int(cachedLCS)
				wordHits = int(cachedHits)
			} else {
				lcsLen = LCSLen(normalizedQuery, bestSegmentText)
				cache.Set(docIdx, clampByte(lcsLen), clampByte(wordHits))
			}
		} else {
			lcsLen = LCSLen(normalizedQuery, bestSegmentText)
		}

		fallback := lcsLen - 2
		if fallback < 0 {
			fallback = 0
		}
		sum = fallback
	}

	net := sum - orderPenalty
	if net < 0 {
		net = 0
	}
	coverage := float64(net) / float64(querySize) * 255

	if setup.EnableProximity {
		coverage *= proximityMultiplier(queryWords, docWords, 0.15)
	}
	if setup.EnableEntropyWeighting && setup.TermDF != nil && len(queryWords) > 0 {
		entropySum := 0.0
		for _, w := range queryWords {
			entropySum += entropyWeight(setup.TermDF(w), setup.TotalDocs)
		}
		coverage *= entropySum / float64(len(queryWords))
	}

	return Result{Coverage: clampByte(int(coverage + 0.5)), WordHits: wordHits, LCS: lcsLen}
}
