package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_CaseFold(t *testing.T) {
	n := NewNormalizer(true, nil, nil)
	assert.Equal(t, "red shoes", n.Normalize("Red SHOES"))
}

func TestNormalizer_CaseFoldDisabled(t *testing.T) {
	n := NewNormalizer(false, nil, nil)
	assert.Equal(t, "Red SHOES", n.Normalize("Red SHOES"))
}

func TestNormalizer_StringReplaceToFixedPoint(t *testing.T) {
	n := NewNormalizer(false, map[string]string{"aa": "a"}, nil)
	assert.Equal(t, "a", n.Normalize("aaaa"))
}

func TestNormalizer_StringReplaceStopsAtMaxIterations(t *testing.T) {
	n := NewNormalizer(false, map[string]string{"a": "aa"}, nil)
	out := n.Normalize("a")
	assert.Len(t, out, 1<<n.maxIterations)
}

func TestNormalizer_CharReplaceAppliedOnce(t *testing.T) {
	n := NewNormalizer(false, nil, map[rune]rune{'-': ' '})
	assert.Equal(t, "a b c", n.Normalize("a-b-c"))
}

func TestNormalizer_IsIdempotent(t *testing.T) {
	n := NewNormalizer(true, map[string]string{"ph": "f"}, map[rune]rune{'_': ' '})
	once := n.Normalize("PHoto_Booth")
	twice := n.Normalize(once)
	assert.Equal(t, once, twice)
}
