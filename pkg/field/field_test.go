package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lofcz/infidex/pkg/config"
)

func TestValue_String(t *testing.T) {
	assert.Equal(t, "hello", StringValue("hello").String())
	assert.Equal(t, "1.5", NumberValue(1.5).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "", NullValue.String())
}

func TestField_EffectiveWeight_UsesOverrideWhenSet(t *testing.T) {
	weights := config.DefaultFieldWeights()
	f := Field{Weight: config.WeightLow, WeightOverride: 9}
	assert.Equal(t, 9.0, f.EffectiveWeight(weights))
}

func TestField_EffectiveWeight_FallsBackToWeightClass(t *testing.T) {
	weights := config.DefaultFieldWeights()
	f := Field{Weight: config.WeightHigh}
	assert.Equal(t, 1.5, f.EffectiveWeight(weights))
}

func TestField_Validate_RejectsListValuedSortable(t *testing.T) {
	f := Field{Name: "title", Sortable: true, Values: []Value{StringValue("a"), StringValue("b")}}
	require.Error(t, f.Validate())
}

func TestDocumentFields_SetPreservesInsertionOrder(t *testing.T) {
	d := NewDocumentFields()
	d.Set(Field{Name: "b"})
	d.Set(Field{Name: "a"})
	d.Set(Field{Name: "b"})
	assert.Equal(t, []string{"b", "a"}, d.Names())
	assert.Equal(t, 2, d.Len())
}

func TestDocumentFields_Get(t *testing.T) {
	d := NewDocumentFields()
	d.Set(Field{Name: "title", Values: []Value{StringValue("x")}})

	f, ok := d.Get("title")
	require.True(t, ok)
	assert.Equal(t, "x", f.Values[0].Str)

	_, ok = d.Get("missing")
	assert.False(t, ok)
}

func TestDocumentFields_ConcatenateSkipsNonIndexableAndNull(t *testing.T) {
	d := NewDocumentFields()
	d.Set(Field{Name: "title", Indexable: true, Values: []Value{StringValue("red shoes")}})
	d.Set(Field{Name: "hidden", Values: []Value{StringValue("ignored")}})
	d.Set(Field{Name: "note", Indexable: true, Values: []Value{NullValue, StringValue("sale")}})

	text, bounds := d.Concatenate(config.DefaultFieldWeights())
	assert.Contains(t, text, "red shoes")
	assert.Contains(t, text, "sale")
	assert.NotContains(t, text, "ignored")
	require.Len(t, bounds, 2)
	assert.Equal(t, "title", bounds[0].FieldName)
	assert.Equal(t, "note", bounds[1].FieldName)
}
