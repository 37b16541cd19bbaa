package engine

import (
	"github.com/lofcz/infidex/pkg/document"
	"github.com/lofcz/infidex/pkg/field"
	"github.com/lofcz/infidex/pkg/filterscript"
)

// fieldAccessor adapts a *document.Document to filterscript.FieldAccessor,
// the one translation point between the document/field vocabulary and
// filterscript's decoupled value model.
type fieldAccessor struct {
	doc *document.Document
}

func (fa fieldAccessor) FieldValues(name string) ([]filterscript.FilterValue, bool) {
	f, ok := fa.doc.Fields.Get(name)
	if !ok {
		return nil, false
	}
	out := make([]filterscript.FilterValue, len(f.Values))
	for i, v := range f.Values {
		out[i] = convertValue(v)
	}
	return out, true
}

func convertValue(v field.Value) filterscript.FilterValue {
	switch v.Kind {
	case field.KindString:
		return filterscript.StringValue(v.Str)
	case field.KindNumber:
		return filterscript.NumberValue(v.Num)
	case field.KindBool:
		return filterscript.BoolValue(v.Bool)
	default:
		return filterscript.NullValue
	}
}

// documentSet adapts *document.Collection to filterscript.DocumentSet,
// used by NumberOfDocumentsInFilter.
type documentSet struct {
	docs *document.Collection
}

func (ds documentSet) Count() int { return ds.docs.Len() }

func (ds documentSet) At(i int) (filterscript.FieldAccessor, bool) {
	d, ok := ds.docs.Get(i)
	if !ok || d.Deleted {
		return nil, false
	}
	return fieldAccessor{doc: d}, true
}

// sortValue returns the first value of field name on the document
// under key, or field.NullValue if the field or document is absent.
func sortValue(docs *document.Collection, key document.Key, name string) field.Value {
	doc, ok := docs.GetByKey(key)
	if !ok {
		return field.NullValue
	}
	f, ok := doc.Fields.Get(name)
	if !ok || len(f.Values) == 0 {
		return field.NullValue
	}
	return f.Values[0]
}

// facetableFieldNames returns the union of Facetable field names across docs.
func facetableFieldNames(docs []*document.Document) []string {
	seen := make(map[string]bool)
	var out []string
	for _, doc := range docs {
		for _, name := range doc.Fields.Names() {
			if seen[name] {
				continue
			}
			f, ok := doc.Fields.Get(name)
			if !ok || !f.Facetable {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
