package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lofcz/infidex/pkg/document"
)

func TestConsolidate_KeepsHighestPerKey(t *testing.T) {
	entries := []Candidate{
		{DocumentKey: 1, Score: 10},
		{DocumentKey: 1, Score: 50},
		{DocumentKey: 2, Score: 30},
	}
	out := Consolidate(entries)
	assert.Len(t, out, 2)
	assert.Equal(t, byte(50), out[0].Score)
	assert.Equal(t, document.Key(1), out[0].DocumentKey)
	assert.Equal(t, document.Key(2), out[1].DocumentKey)
}

func TestConsolidate_StableTiesPreserveFirstSeenOrder(t *testing.T) {
	entries := []Candidate{
		{DocumentKey: 5, Score: 20},
		{DocumentKey: 3, Score: 20},
	}
	out := Consolidate(entries)
	assert.Equal(t, document.Key(5), out[0].DocumentKey)
	assert.Equal(t, document.Key(3), out[1].DocumentKey)
}

func TestTopK_ClipsAndPassesThrough(t *testing.T) {
	ranked := []Candidate{{Score: 3}, {Score: 2}, {Score: 1}}
	assert.Len(t, TopK(ranked, 2), 2)
	assert.Equal(t, ranked, TopK(ranked, 0))
	assert.Equal(t, ranked, TopK(ranked, 10))
}

func TestTruncationIndex_Disabled(t *testing.T) {
	assert.Equal(t, -1, TruncationIndex(TruncationSetup{Enabled: false}, []Candidate{{Score: 1}}))
}

func TestTruncationIndex_KeepsDownToMinWordHits(t *testing.T) {
	ranked := []Candidate{
		{Score: 200, WordHits: 5},
		{Score: 150, WordHits: 3},
		{Score: 50, WordHits: 1},
		{Score: 10, WordHits: 0},
	}
	setup := TruncationSetup{Enabled: true, CoverageMinWordHitsAbs: 0, CoverageMinWordHitsRelative: 3, TruncationScore: 255}
	idx := TruncationIndex(setup, ranked)
	assert.Equal(t, 1, idx)
}

func TestTruncationIndex_ScoreFloorKeepsEntry(t *testing.T) {
	ranked := []Candidate{
		{Score: 200, WordHits: 0},
		{Score: 100, WordHits: 0},
	}
	setup := TruncationSetup{Enabled: true, CoverageMinWordHitsAbs: 99, TruncationScore: 90}
	idx := TruncationIndex(setup, ranked)
	assert.Equal(t, 1, idx)
}

func TestResolveBestSegmentDoc_UsesRecordedSegment(t *testing.T) {
	docs := document.NewCollection()
	idBase := docs.Add(document.Document{Key: 1, SegmentNumber: 0})
	docs.Add(document.Document{Key: 1, SegmentNumber: 1})

	bestSegments := map[int]int32{idBase: 1}
	d, ok := ResolveBestSegmentDoc(docs, 1, bestSegments, idBase)
	assert.True(t, ok)
	assert.Equal(t, int32(1), d.SegmentNumber)
}

func TestResolveBestSegmentDoc_FallsBackWhenAbsent(t *testing.T) {
	docs := document.NewCollection()
	idBase := docs.Add(document.Document{Key: 1, SegmentNumber: 0})

	d, ok := ResolveBestSegmentDoc(docs, 1, map[int]int32{}, idBase)
	assert.True(t, ok)
	assert.Equal(t, int32(0), d.SegmentNumber)
}
