package coverage

import (
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/lofcz/infidex/internal/tokenizer"
)

// exactWholeWord implements spec.md §4.5 step 1: set-intersect query
// words and doc words via a single Aho-Corasick scan of the doc text
// against the query's word set (grounded on pkg/dafsa's dual-purpose
// AC scanner). Each matched query word contributes its rune length;
// a positional mismatch between the query and doc word arrays at the
// same slot adds 1 to the order penalty; matched words beyond the
// first each add 1 "separator" char.
func exactWholeWord(queryWords, docWords []string, qConsumed, dConsumed *bitset.BitSet) (sum int, orderPenalty int) {
	if len(queryWords) == 0 || len(docWords) == 0 {
		return 0, 0
	}

	scanner := tokenizer.BuildWordScanner(queryWords)
	docText := strings.ToLower(strings.Join(docWords, " "))
	found := make(map[string]bool, len(queryWords))
	for _, m := range scanner.FindAll(docText) {
		found[docText[m.Start():m.End()]] = true
	}

	matched := 0
	for qi, qw := range queryWords {
		if qConsumed.Test(uint(qi)) || !found[strings.ToLower(qw)] {
			continue
		}
		sum += len([]rune(qw))
		qConsumed.Set(uint(qi))
		matched++

		for di, dw := range docWords {
			if !dConsumed.Test(uint(di)) && strings.EqualFold(dw, qw) {
				dConsumed.Set(uint(di))
				break
			}
		}
	}

	limit := len(queryWords)
	if len(docWords) < limit {
		limit = len(docWords)
	}
	for i := 0; i < limit; i++ {
		if !strings.EqualFold(queryWords[i], docWords[i]) {
			orderPenalty++
		}
	}

	if matched > 1 {
		sum += matched - 1
	}

	return sum, orderPenalty
}

// joinedSplit implements spec.md §4.5 step 2: try joining consecutive
// query words and look for the concatenation as a single doc word, then
// the reverse. The first match found (query-join pass first) wins and
// consumes the words it used from both sides.
func joinedSplit(queryWords, docWords []string, qConsumed, dConsumed *bitset.BitSet) int {
	for i := 0; i+1 < len(queryWords); i++ {
		if qConsumed.Test(uint(i)) || qConsumed.Test(uint(i+1)) {
			continue
		}
		joined := queryWords[i] + queryWords[i+1]
		for di, dw := range docWords {
			if !dConsumed.Test(uint(di)) && strings.EqualFold(dw, joined) {
				qConsumed.Set(uint(i))
				qConsumed.Set(uint(i + 1))
				dConsumed.Set(uint(di))
				return len([]rune(joined))
			}
		}
	}

	for i := 0; i+1 < len(docWords); i++ {
		if dConsumed.Test(uint(i)) || dConsumed.Test(uint(i+1)) {
			continue
		}
		joined := docWords[i] + docWords[i+1]
		for qi, qw := range queryWords {
			if !qConsumed.Test(uint(qi)) && strings.EqualFold(qw, joined) {
				dConsumed.Set(uint(i))
				dConsumed.Set(uint(i + 1))
				qConsumed.Set(uint(qi))
				return len([]rune(joined))
			}
		}
	}

	return 0
}

// fuzzyLD1 implements spec.md §4.5 step 3: for each remaining query
// word within the size band, search remaining doc words in the same
// band for an edit-distance-<=1 match.
func fuzzyLD1(queryWords, docWords []string, minSize, maxSize int, qConsumed, dConsumed *bitset.BitSet) int {
	sum := 0
	for qi, qw := range queryWords {
		if qConsumed.Test(uint(qi)) {
			continue
		}
		qlen := len([]rune(qw))
		if qlen < minSize || qlen > maxSize {
			continue
		}
		for di, dw := range docWords {
			if dConsumed.Test(uint(di)) {
				continue
			}
			dlen := len([]rune(dw))
			if dlen < minSize || dlen > maxSize {
				continue
			}
			if d, ok := editDistanceAtMost1(qw, dw); ok {
				sum += qlen - d
				qConsumed.Set(uint(qi))
				dConsumed.Set(uint(di))
				break
			}
		}
	}
	return sum
}

// prefixSuffix implements spec.md §4.5 step 4: a remaining query word
// and doc word of differing length match if one is a prefix or suffix
// of the other; the longer matches are resolved first.
func prefixSuffix(queryWords, docWords []string, qConsumed, dConsumed *bitset.BitSet) int {
	type candidate struct {
		qi, di, shorterLen int
	}
	var candidates []candidate

	for qi, qw := range queryWords {
		if qConsumed.Test(uint(qi)) {
			continue
		}
		lqw := strings.ToLower(qw)
		for di, dw := range docWords {
			if dConsumed.Test(uint(di)) {
				continue
			}
			if len(qw) == len(dw) {
				continue
			}
			ldw := strings.ToLower(dw)
			if !strings.HasPrefix(lqw, ldw) && !strings.HasPrefix(ldw, lqw) &&
				!strings.HasSuffix(lqw, ldw) && !strings.HasSuffix(ldw, lqw) {
				continue
			}
			shorter := qw
			if len(dw) < len(qw) {
				shorter = dw
			}
			candidates = append(candidates, candidate{qi, di, len([]rune(shorter))})
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].shorterLen > candidates[j].shorterLen })

	sum := 0
	for _, c := range candidates {
		if qConsumed.Test(uint(c.qi)) || dConsumed.Test(uint(c.di)) {
			continue
		}
		qConsumed.Set(uint(c.qi))
		dConsumed.Set(uint(c.di))
		sum += c.shorterLen - 1
	}
	return sum
}

// editDistanceAtMost1 reports the Levenshtein distance between a and b
// when it is 0 or 1, and false otherwise (a direct check, not the
// symmetric-delete scheme the word matcher uses for vocabulary lookup:
// here both sides are already known short words, so a direct two-pointer
// scan is simpler and just as cheap).
func editDistanceAtMost1(a, b string) (int, bool) {
	ra, rb := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
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
