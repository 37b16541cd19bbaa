package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lofcz/infidex/internal/tokenizer"
	"github.com/lofcz/infidex/pkg/config"
	"github.com/lofcz/infidex/pkg/document"
	"github.com/lofcz/infidex/pkg/field"
)

func newFixtureDoc(key int, text string) document.Document {
	fields := field.NewDocumentFields()
	fields.Set(field.Field{Name: "body", Indexable: true, Values: []field.Value{field.StringValue(text)}})
	return document.Document{Key: document.Key(key), Fields: fields}
}

func TestIndex_NotIndexedUntilCalculateWeights(t *testing.T) {
	idx := New(config.Default(), tokenizer.NewNormalizer(true, nil, nil))
	assert.False(t, idx.IsIndexed())

	doc := newFixtureDoc(1, "red shoes")
	idx.IndexDocument(&doc)
	assert.False(t, idx.IsIndexed())

	idx.CalculateWeights(1, nil)
	assert.True(t, idx.IsIndexed())
}

func TestIndex_IndexDocument_PopulatesTermsAndIndexedText(t *testing.T) {
	idx := New(config.Default(), tokenizer.NewNormalizer(true, nil, nil))
	doc := newFixtureDoc(1, "red shoes")
	idx.IndexDocument(&doc)

	assert.Equal(t, "red shoes", doc.IndexedText)
	assert.Greater(t, idx.VocabSize(), 0)
	assert.NotNil(t, idx.Term("red"))
}

func TestIndex_CalculateWeights_QuantizesIntoByteRange(t *testing.T) {
	idx := New(config.Default(), tokenizer.NewNormalizer(true, nil, nil))
	doc1 := newFixtureDoc(1, "red shoes for sale")
	doc2 := newFixtureDoc(2, "blue shoes for sale")
	idx.IndexDocument(&doc1)
	idx.IndexDocument(&doc2)
	idx.CalculateWeights(2, nil)

	term := idx.Term("red")
	require.NotNil(t, term)
	require.Len(t, term.Weights, 1)
	assert.Greater(t, term.Weights[0], byte(0))
}

func TestIndex_CalculateWeights_CancelledSkipsIndexing(t *testing.T) {
	idx := New(config.Default(), tokenizer.NewNormalizer(true, nil, nil))
	doc := newFixtureDoc(1, "red shoes")
	idx.IndexDocument(&doc)
	idx.CalculateWeights(1, func() bool { return true })
	assert.False(t, idx.IsIndexed())
}

func TestIndex_AllTermsSorted_ExcludesStoppedTerms(t *testing.T) {
	cfg := config.Default()
	cfg.StopTermLimit = 1
	idx := New(cfg, tokenizer.NewNormalizer(true, nil, nil))

	doc1 := newFixtureDoc(1, "common word")
	doc2 := newFixtureDoc(2, "common word")
	idx.IndexDocument(&doc1)
	idx.IndexDocument(&doc2)

	term := idx.Term("common")
	require.NotNil(t, term)
	assert.True(t, term.IsStopped())

	sorted := idx.AllTermsSorted()
	assert.NotContains(t, sorted, "common")
}

func TestIndex_RestoreTermAndMarkIndexed(t *testing.T) {
	idx := New(config.Default(), tokenizer.NewNormalizer(true, nil, nil))
	assert.Nil(t, idx.Term("ghost"))

	restored := idx.term("ghost")
	idx.RestoreTerm(restored)
	idx.MarkIndexed(true)

	assert.Same(t, restored, idx.Term("ghost"))
	assert.True(t, idx.IsIndexed())
}
