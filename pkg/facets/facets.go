// Package facets implements spec.md §4.10's facet counting and
// result sort-by: distinct-value tallies over Facetable fields, and
// the comparison rule Search uses when a caller requests an ordering
// other than relevance.
package facets

import (
	"sort"

	"github.com/lofcz/infidex/pkg/document"
	"github.com/lofcz/infidex/pkg/field"
)

// Count is one distinct value's tally within a field's facet.
type Count struct {
	Value string
	Count int
}

// MaxValuesPerField caps how many distinct values a single field's
// facet reports, dropping the longest tail of low-count values.
const MaxValuesPerField = 100

// Compute tallies distinct stringified values for every Facetable
// field across docs, expanding list-valued fields element-wise and
// dropping nulls. Each field's counts are sorted count-descending,
// value-ascending on ties, and capped at MaxValuesPerField.
func Compute(docs []*document.Document, fieldNames []string) map[string][]Count {
	tally := make(map[string]map[string]int, len(fieldNames))
	for _, name := range fieldNames {
		tally[name] = make(map[string]int)
	}

	for _, doc := range docs {
		if doc.Deleted {
			continue
		}
		for _, name := range fieldNames {
			f, ok := doc.Fields.Get(name)
			if !ok || !f.Facetable {
				continue
			}
			for _, v := range f.Values {
				if v.Kind == field.KindNull {
					continue
				}
				tally[name][v.String()]++
			}
		}
	}

	out := make(map[string][]Count, len(fieldNames))
	for name, counts := range tally {
		list := make([]Count, 0, len(counts))
		for val, n := range counts {
			list = append(list, Count{Value: val, Count: n})
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].Count != list[j].Count {
				return list[i].Count > list[j].Count
			}
			return list[i].Value < list[j].Value
		})
		if len(list) > MaxValuesPerField {
			list = list[:MaxValuesPerField]
		}
		out[name] = list
	}
	return out
}
