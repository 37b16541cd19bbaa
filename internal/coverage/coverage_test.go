package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lofcz/infidex/pkg/config"
)

func defaultTestSetup() Setup {
	return Setup{
		EnableExactWholeWord: true,
		EnableJoinedSplit:    true,
		EnableFuzzy:          true,
		EnablePrefixSuffix:   true,
		EnableLCS:            true,
		CoverWholeQuery:      true,
		MinWordSize:          2,
		LevenshteinMaxWordSize: 16,
	}
}

func TestScore_ExactWholeWordMatch(t *testing.T) {
	setup := defaultTestSetup()
	res := Score(setup, []string{"red", "shoes"}, []string{"bright", "red", "running", "shoes"}, "red shoes", "bright red running shoes", nil, 0)
	assert.Greater(t, res.Coverage, byte(0))
	assert.Equal(t, 2, res.WordHits)
}

func TestScore_NoOverlapFallsBackToLCS(t *testing.T) {
	setup := defaultTestSetup()
	res := Score(setup, []string{"zzz"}, []string{"abc"}, "zzz", "abc", nil, 0)
	assert.Equal(t, byte(0), res.Coverage)
}

func TestScore_EmptyQueryIsZero(t *testing.T) {
	setup := defaultTestSetup()
	res := Score(setup, nil, []string{"a"}, "", "a", nil, 0)
	assert.Equal(t, Result{}, res)
}

func TestScore_CacheReusesLCS(t *testing.T) {
	setup := defaultTestSetup()
	setup.EnableExactWholeWord = false
	setup.EnableJoinedSplit = false
	setup.EnableFuzzy = false
	setup.EnablePrefixSuffix = false

	cache := NewLCSCache(1)
	r1 := Score(setup, []string{"kitten"}, []string{"sitting"}, "kitten", "sitting", cache, 0)
	r2 := Score(setup, []string{"kitten"}, []string{"sitting"}, "kitten", "sitting", cache, 0)
	assert.Equal(t, r1.LCS, r2.LCS)
}

func TestFuse_WordMatcherSourceUsesCoverageOutright(t *testing.T) {
	assert.Equal(t, byte(200), Fuse(FromWordMatcher, 50, 200))
	assert.Equal(t, byte(10), Fuse(FromWordMatcher, 50, 10))
}

func TestFuse_Stage1SourceKeepsHigher(t *testing.T) {
	assert.Equal(t, byte(50), Fuse(FromStage1, 50, 10))
	assert.Equal(t, byte(80), Fuse(FromStage1, 50, 80))
}

func TestProximityMultiplier_TightClusterBoosts(t *testing.T) {
	tight := proximityMultiplier([]string{"red", "shoes"}, []string{"red", "shoes", "sale"}, 0.2)
	loose := proximityMultiplier([]string{"red", "shoes"}, []string{"red", "a", "b", "c", "d", "e", "f", "shoes"}, 0.2)
	assert.Greater(t, tight, loose)
	assert.GreaterOrEqual(t, loose, 1.0)
}

func TestProximityMultiplier_SingleHitIsNeutral(t *testing.T) {
	assert.Equal(t, 1.0, proximityMultiplier([]string{"red"}, []string{"red"}, 0.3))
}

func TestEntropyWeight_MidFrequencyScoresHighest(t *testing.T) {
	mid := entropyWeight(50, 100)
	rare := entropyWeight(1, 100)
	assert.Greater(t, mid, rare)
}

func TestEntropyWeight_ZeroDFIsNeutral(t *testing.T) {
	assert.Equal(t, 1.0, entropyWeight(0, 100))
	assert.Equal(t, 1.0, entropyWeight(5, 0))
}

func TestScore_EntropyWeightingScalesCoverage(t *testing.T) {
	setup := defaultTestSetup()
	setup.EnableEntropyWeighting = true
	setup.TotalDocs = 100
	setup.TermDF = func(word string) int {
		if word == "red" {
			return 50
		}
		return 1
	}
	withEntropy := Score(setup, []string{"red", "extra"}, []string{"red"}, "red extra", "red", nil, 0)

	setup.EnableEntropyWeighting = false
	withoutEntropy := Score(setup, []string{"red", "extra"}, []string{"red"}, "red extra", "red", nil, 0)

	assert.NotEqual(t, withEntropy.Coverage, withoutEntropy.Coverage)
}

func TestLCSLen(t *testing.T) {
	assert.Equal(t, 4, LCSLen("kitten", "sitting"))
	assert.Equal(t, 3, LCSLen("abc", "abc"))
	assert.Equal(t, 0, LCSLen("", "abc"))
}

func TestLCSCache_GetSetRoundTrip(t *testing.T) {
	cache := NewLCSCache(3)
	_, _, ok := cache.Get(1)
	assert.False(t, ok)

	cache.Set(1, 5, 2)
	lcs, hits, ok := cache.Get(1)
	assert.True(t, ok)
	assert.Equal(t, byte(5), lcs)
	assert.Equal(t, byte(2), hits)
}

func TestDefaultSetup_TracksWordMatcherFlags(t *testing.T) {
	setup := DefaultSetup(config.WordMatcherSetup{MinWordSize: 2, MaxWordSize: 64, LevenshteinMaxWordSize: 16, EnableLD1: true, EnableAffix: false})
	assert.True(t, setup.EnableFuzzy)
	assert.False(t, setup.EnablePrefixSuffix)
}
