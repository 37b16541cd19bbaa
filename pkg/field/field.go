// Package field implements the Field and DocumentFields data model
// (spec.md §3): named, typed, weighted values attached to a document,
// plus the insertion-order-preserving map that owns them and the
// concatenation operation the tokenizer pipeline runs over.
package field

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lofcz/infidex/pkg/config"
)

// ValueKind tags the dynamic type carried by a Field.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindNull
)

// Value is a single scalar field value (one element of a list-valued field).
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

// String renders a Value for filtering, sorting and facet bucketing.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// StringValue builds a string-typed Value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// NumberValue builds a number-typed Value.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// BoolValue builds a bool-typed Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NullValue is the singleton null Value.
var NullValue = Value{Kind: KindNull}

// Field is one named, possibly list-valued, typed attribute of a document.
type Field struct {
	Name string
	// Values holds one entry for a scalar field, N for a list field.
	Values []Value

	Indexable    bool
	Filterable   bool
	Facetable    bool
	Sortable     bool
	WordIndexing bool

	Weight      config.WeightClass
	WeightOverride float64 // explicit multiplier; 0 means "use Weight"
}

// EffectiveWeight resolves the field's multiplier given a weight table.
func (f Field) EffectiveWeight(weights config.FieldWeights) float64 {
	if f.WeightOverride != 0 {
		return f.WeightOverride
	}
	return weights.Multiplier(f.Weight)
}

// DocumentFields is the insertion-order-preserving name -> Field map
// that a Document owns. It exclusively owns its Field values; callers
// receive borrowed views via Get.
type DocumentFields struct {
	order  []string
	byName map[string]*Field
}

// NewDocumentFields creates an empty field map.
func NewDocumentFields() *DocumentFields {
	return &DocumentFields{byName: make(map[string]*Field)}
}

// Set inserts or replaces a field, preserving first-seen insertion order.
func (d *DocumentFields) Set(f Field) {
	if _, exists := d.byName[f.Name]; !exists {
		d.order = append(d.order, f.Name)
	}
	fc := f
	d.byName[f.Name] = &fc
}

// Get returns a borrowed view of a field by name.
func (d *DocumentFields) Get(name string) (*Field, bool) {
	f, ok := d.byName[name]
	return f, ok
}

// Names returns field names in insertion order.
func (d *DocumentFields) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Len returns the number of fields.
func (d *DocumentFields) Len() int { return len(d.order) }

// FieldBoundary marks where a field's text begins in the concatenated
// IndexedText and what weight multiplier applies to tokens from it.
type FieldBoundary struct {
	FieldName string
	Position  int
	Weight    float64
}

// Delimiter is the reserved field-boundary character emitted between
// concatenated field values. Chosen from the Unicode private-use area
// so it can never collide with real document text.
const Delimiter = ''

// Concatenate emits the searchable field values (Indexable or
// WordIndexing fields only; list values expand element-wise) joined
// by Delimiter, returning the concatenated text and the ascending
// sequence of field boundary markers (spec.md §3 "DocumentFields").
func (d *DocumentFields) Concatenate(weights config.FieldWeights) (string, []FieldBoundary) {
	var sb strings.Builder
	var bounds []FieldBoundary

	for _, name := range d.order {
		f := d.byName[name]
		if !f.Indexable && !f.WordIndexing {
			continue
		}
		w := f.EffectiveWeight(weights)

		for _, v := range f.Values {
			if v.Kind == KindNull {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteRune(Delimiter)
			}
			bounds = append(bounds, FieldBoundary{
				FieldName: name,
				Position:  sb.Len(),
				Weight:    w,
			})
			sb.WriteString(v.String())
		}
	}

	return sb.String(), bounds
}

// Validate checks a field's internal consistency (e.g. a Sortable
// field must be scalar, since sort order over list values is undefined).
func (f Field) Validate() error {
	if f.Sortable && len(f.Values) > 1 {
		return fmt.Errorf("field %q: sortable fields must be scalar, got %d values", f.Name, len(f.Values))
	}
	return nil
}
