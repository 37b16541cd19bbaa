// Package tokenizer implements the text normalizer and n-gram/word
// tokenizer (spec.md §4.1, §4.2).
package tokenizer

import "strings"

// Normalizer applies configurable one-way maps plus case folding,
// deterministically and idempotently (spec.md §4.1).
type Normalizer struct {
	CaseFold      bool
	StringReplace map[string]string // applied iteratively to a fixed point
	CharReplace   map[rune]rune     // applied once

	maxIterations int
}

// NewNormalizer builds a Normalizer; maxIterations bounds the fixed-point
// loop over StringReplace so a cyclic replacement table cannot hang.
func NewNormalizer(caseFold bool, stringReplace map[string]string, charReplace map[rune]rune) *Normalizer {
	return &Normalizer{
		CaseFold:      caseFold,
		StringReplace: stringReplace,
		CharReplace:   charReplace,
		maxIterations: 8,
	}
}

// Normalize lowers case (if configured), applies string replacements to
// a fixed point, then char replacements once.
func (n *Normalizer) Normalize(s string) string {
	if n.CaseFold {
		s = strings.ToLower(s)
	}

	for i := 0; i < n.maxIterations; i++ {
		replaced := s
		for from, to := range n.StringReplace {
			replaced = strings.ReplaceAll(replaced, from, to)
		}
		if replaced == s {
			break
		}
		s = replaced
	}

	if len(n.CharReplace) > 0 {
		s = strings.Map(func(r rune) rune {
			if to, ok := n.CharReplace[r]; ok {
				return to
			}
			return r
		}, s)
	}

	return s
}
