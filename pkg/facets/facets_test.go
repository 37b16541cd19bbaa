package facets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lofcz/infidex/pkg/document"
	"github.com/lofcz/infidex/pkg/field"
)

func newDoc(t *testing.T, color string, tags []string) *document.Document {
	t.Helper()
	fields := field.NewDocumentFields()
	fields.Set(field.Field{Name: "color", Values: []field.Value{field.StringValue(color)}, Facetable: true})

	tagVals := make([]field.Value, len(tags))
	for i, tag := range tags {
		tagVals[i] = field.StringValue(tag)
	}
	fields.Set(field.Field{Name: "tags", Values: tagVals, Facetable: true})

	return &document.Document{Fields: fields}
}

func TestCompute_CountsAndOrdering(t *testing.T) {
	docs := []*document.Document{
		newDoc(t, "red", []string{"a", "b"}),
		newDoc(t, "red", []string{"a"}),
		newDoc(t, "blue", []string{"b"}),
	}

	out := Compute(docs, []string{"color", "tags"})

	require.Len(t, out["color"], 2)
	assert.Equal(t, Count{Value: "red", Count: 2}, out["color"][0])
	assert.Equal(t, Count{Value: "blue", Count: 1}, out["color"][1])

	require.Len(t, out["tags"], 2)
	assert.Equal(t, "a", out["tags"][0].Value)
	assert.Equal(t, 2, out["tags"][0].Count)
}

func TestCompute_SkipsDeletedAndNulls(t *testing.T) {
	deleted := newDoc(t, "red", nil)
	deleted.Deleted = true

	withNull := field.NewDocumentFields()
	withNull.Set(field.Field{Name: "color", Values: []field.Value{field.NullValue}, Facetable: true})
	nullDoc := &document.Document{Fields: withNull}

	out := Compute([]*document.Document{deleted, nullDoc}, []string{"color"})
	assert.Empty(t, out["color"])
}

func TestCompute_CapsAtMaxValuesPerField(t *testing.T) {
	docs := make([]*document.Document, 0, MaxValuesPerField+10)
	for i := 0; i < MaxValuesPerField+10; i++ {
		docs = append(docs, newDoc(t, string(rune('a'+i%26))+string(rune(i)), nil))
	}
	out := Compute(docs, []string{"color"})
	assert.LessOrEqual(t, len(out["color"]), MaxValuesPerField)
}

func TestLess_NullsFirst(t *testing.T) {
	assert.True(t, Less(field.NullValue, field.NumberValue(1), Ascending))
	assert.False(t, Less(field.NumberValue(1), field.NullValue, Ascending))
	assert.True(t, Less(field.NullValue, field.NumberValue(1), Descending))
}

func TestLess_NativeNumeric(t *testing.T) {
	assert.True(t, Less(field.NumberValue(1), field.NumberValue(2), Ascending))
	assert.False(t, Less(field.NumberValue(2), field.NumberValue(1), Ascending))
	assert.True(t, Less(field.NumberValue(2), field.NumberValue(1), Descending))
}

func TestLess_MismatchedKindsStringify(t *testing.T) {
	assert.True(t, Less(field.NumberValue(1), field.StringValue("z"), Ascending))
}
