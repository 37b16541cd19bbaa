package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lofcz/infidex/internal/tokenizer"
	"github.com/lofcz/infidex/pkg/config"
	"github.com/lofcz/infidex/pkg/document"
)

func TestEngine_SaveLoadRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	e.IndexDocument(mkDoc(1, "red running shoes", 49.99))
	e.IndexDocument(mkDoc(2, "blue walking shoes", 19.99))
	e.CalculateWeights(nil)

	path := filepath.Join(t.TempDir(), "dump.bin")
	require.NoError(t, e.Save(path))

	loaded, err := Load(path, config.Default(), tokenizer.NewNormalizer(true, nil, nil), nil)
	require.NoError(t, err)

	docCount, _ := loaded.GetStatistics()
	assert.Equal(t, 2, docCount)

	res := loaded.Search(Query{Text: "red running shoes", MaxNumberOfRecordsToReturn: 10})
	require.NotEmpty(t, res.Records)
	assert.Equal(t, document.Key(1), res.Records[0].DocumentKey)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bin"), config.Default(), tokenizer.NewNormalizer(true, nil, nil), nil)
	assert.Error(t, err)
}
