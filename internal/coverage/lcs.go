package coverage

import "github.com/bits-and-blooms/bitset"

// LCSCache is the per-search N×2 byte matrix described in spec.md
// §4.5: column 0 holds the clamped LCS length, column 1 the clamped
// word-hit count, keyed by a compact per-search candidate-document
// index (not the engine's internal document id) so the LCS fallback
// runs at most once per candidate regardless of how many times
// Stage-2 revisits it. The populated bitmap (rather than a zero-value
// sentinel) lets a legitimately-zero LCS be distinguished from "not
// yet computed".
type LCSCache struct {
	lcs       []byte
	wordHits  []byte
	populated *bitset.BitSet
}

// NewLCSCache allocates a cache sized for n candidate documents.
func NewLCSCache(n int) *LCSCache {
	return &LCSCache{
		lcs:       make([]byte, n),
		wordHits:  make([]byte, n),
		populated: bitset.New(uint(n)),
	}
}

// Get returns the cached entry for idx, or ok=false if never set.
func (c *LCSCache) Get(idx int) (lcs byte, wordHits byte, ok bool) {
	if idx < 0 || idx >= len(c.lcs) || !c.populated.Test(uint(idx)) {
		return 0, 0, false
	}
	return c.lcs[idx], c.wordHits[idx], true
}

// Set populates the cache entry for idx.
func (c *LCSCache) Set(idx int, lcs, wordHits byte) {
	if idx < 0 || idx >= len(c.lcs) {
		return
	}
	c.lcs[idx] = lcs
	c.wordHits[idx] = wordHits
	c.populated.Set(uint(idx))
}

// LCSLen computes the longest common subsequence length between a and
// b via a rolling two-row dynamic program over runes. The classic
// bit-parallel LCS recurrences (Allison-Dix, Crochemore et al.) trade
// this O(n*m) form for O(n*m/w), but their correctness hinges on a bit
// identity that is easy to get subtly wrong and hard to catch once
// wrong, since it only ever silently perturbs a fallback ranking
// signal; this package instead spends its bits-and-blooms/bitset usage
// on the consumed-word tracking in wordalgo.go and the populated-slot
// bitmap above, where a mistake would be obviously wrong rather than
// quietly so.
func LCSLen(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if len(rb) > len(ra) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
