package tokenizer

import (
	"sort"
	"strings"
	"unicode"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"github.com/orsinium-labs/stopwords"

	"github.com/lofcz/infidex/pkg/config"
)

// Reserved Unicode private-use code points used to pad indexed text so
// that n-grams at string edges carry a boundary signal (spec.md §4.2).
const (
	StartPadRune = ''
	StopPadRune  = ''
)

// TokenKind distinguishes the two output streams of the tokenizer.
type TokenKind int

const (
	NGramToken TokenKind = iota
	WordToken
)

// Token is one emitted n-gram or whole word, annotated with its
// absolute rune position in the padded text.
type Token struct {
	Text     string
	Position int
	Kind     TokenKind
}

// Tokenizer produces n-gram and whole-word token streams from
// normalized text per a TokenizerSetup and a set of n-gram sizes.
type Tokenizer struct {
	Normalizer *Normalizer
	Setup      config.TokenizerSetup
	IndexSizes []int
	StartPad   int
	StopPad    int

	stopwords stopwords.StopWords
}

// New builds a Tokenizer from a resolved Config.
func New(norm *Normalizer, cfg config.Config) *Tokenizer {
	return &Tokenizer{
		Normalizer: norm,
		Setup:      cfg.Tokenizer,
		IndexSizes: append([]int(nil), cfg.IndexSizes...),
		StartPad:   cfg.StartPadSize,
		StopPad:    cfg.StopPadSize,
		stopwords:  stopwords.English,
	}
}

// pad concatenates StartPad copies of StartPadRune, the normalized
// text, and StopPad copies of StopPadRune. Continuation segments
// (isContinuation) omit the start padding, since they are not a text
// boundary (spec.md §4.2).
func (t *Tokenizer) pad(normalized string, isContinuation bool) []rune {
	runes := []rune(normalized)
	startPad := t.StartPad
	if isContinuation {
		startPad = 0
	}
	out := make([]rune, 0, startPad+len(runes)+t.StopPad)
	for i := 0; i < startPad; i++ {
		out = append(out, StartPadRune)
	}
	out = append(out, runes...)
	for i := 0; i < t.StopPad; i++ {
		out = append(out, StopPadRune)
	}
	return out
}

func isPaddingOnly(gram []rune) bool {
	for _, r := range gram {
		if r != StartPadRune && r != StopPadRune {
			return false
		}
	}
	return true
}

// Tokenize runs the full two-stream extraction for a piece of text at
// search- or index-time. highResPass gates the second, delimiter-joined
// pass used only when HighResolutionMode is enabled and a search is
// underway (spec.md §4.2).
func (t *Tokenizer) Tokenize(normalizedText string, isContinuation bool, highResPass bool) []Token {
	padded := t.pad(normalizedText, isContinuation)

	var tokens []Token
	tokens = append(tokens, t.ngrams(padded)...)
	tokens = append(tokens, t.words(padded, t.minWordSize())...)

	if t.Setup.HighResolutionMode && highResPass {
		joinedText := t.stripDelimiters(normalizedText)
		joinedPadded := t.pad(joinedText, isContinuation)
		tokens = append(tokens, t.ngrams(joinedPadded)...)
	}

	if t.Setup.SuppressDuplicates {
		tokens = dedupeByText(tokens)
	}

	return tokens
}

func (t *Tokenizer) minWordSize() int {
	if len(t.IndexSizes) == 0 {
		return 1
	}
	return t.IndexSizes[0]
}

// ngrams extracts character n-grams for every configured size, each
// annotated with its absolute start position in padded. Grams composed
// entirely of padding code points are dropped.
func (t *Tokenizer) ngrams(padded []rune) []Token {
	var out []Token
	for _, n := range t.IndexSizes {
		if n <= 0 || n > len(padded) {
			continue
		}
		for i := 0; i+n <= len(padded); i++ {
			gram := padded[i : i+n]
			if isPaddingOnly(gram) {
				continue
			}
			out = append(out, Token{Text: string(gram), Position: i, Kind: NGramToken})
		}
	}
	return out
}

// words extracts whole-word tokens at least minSize runes long,
// delimited by t.Setup.Delimiters (and by the padding characters, which
// always act as delimiters).
func (t *Tokenizer) words(padded []rune, minSize int) []Token {
	isDelim := func(r rune) bool {
		if r == StartPadRune || r == StopPadRune {
			return true
		}
		return strings.ContainsRune(t.Setup.Delimiters, r) || unicode.IsSpace(r)
	}

	var out []Token
	start := -1
	for i := 0; i <= len(padded); i++ {
		var r rune
		delim := true
		if i < len(padded) {
			r = padded[i]
			delim = isDelim(r)
		}
		if !delim {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			word := padded[start:i]
			if len(word) >= minSize {
				out = append(out, Token{Text: string(word), Position: start, Kind: WordToken})
			}
			start = -1
		}
	}
	return out
}

// stripDelimiters removes all configured delimiter runes, producing the
// text the high-resolution "joined" pass tokenizes (spec.md §4.2).
func (t *Tokenizer) stripDelimiters(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(t.Setup.Delimiters, r) || unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func dedupeByText(tokens []Token) []Token {
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0:0]
	for _, tok := range tokens {
		key := tok.Text
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tok)
	}
	return out
}

// GetWordTokensForCoverage returns the case-insensitive set of whole
// words of length >= minWordSize in text, used by Stage-2 coverage
// scoring (spec.md §4.2). It does not apply stop-word filtering: the
// coverage algorithms need every literal word the query or document
// contains, including common ones, to score overlap faithfully.
func GetWordTokensForCoverage(text string, minWordSize int) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	out := make(map[string]bool, len(words))
	for _, w := range words {
		if len([]rune(w)) >= minWordSize {
			out[w] = true
		}
	}
	return out
}

// OrderedWords returns the case-insensitive whole words of text in
// left-to-right order (positional slots used by the exact whole-word
// algorithm's order-penalty check, spec.md §4.5 step 1).
func OrderedWords(text string, minWordSize int) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) >= minWordSize {
			out = append(out, w)
		}
	}
	return out
}

// IsStopword reports whether word is part of the static seed stopword
// list (used by the word matcher to avoid building LD1/affix entries
// for extremely common words; distinct from the index's corpus-adaptive
// stop-term detection, spec.md §4.3).
func (t *Tokenizer) IsStopword(word string) bool {
	return t.stopwords.Contains(strings.ToLower(word))
}

// BuildWordScanner compiles an Aho-Corasick automaton over a sorted copy
// of vocabulary (the query's words) so the exact whole-word coverage
// algorithm can find every query word that appears in the document
// text in one linear pass, instead of an O(|query|*|doc|)
// nested scan (spec.md §4.5 step 1; grounded on the teacher's
// dual-purpose Aho-Corasick dictionary scanner).
func BuildWordScanner(vocabulary []string) ahocorasick.AhoCorasick {
	sorted := append([]string(nil), vocabulary...)
	sort.Strings(sorted)
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return builder.Build(sorted)
}
