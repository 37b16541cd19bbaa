package facets

import (
	"strings"

	"github.com/lofcz/infidex/pkg/field"
)

// Direction is a sort-by ordering direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Less compares two field values for sort-by ordering (spec.md §4.10
// "Sort-by"): nulls sort first regardless of direction, equal-kind
// values compare natively (numeric, then string, then bool), and
// mismatched kinds fall back to stringified ordinal comparison.
func Less(a, b field.Value, dir Direction) bool {
	if a.Kind == field.KindNull || b.Kind == field.KindNull {
		if a.Kind == b.Kind {
			return false
		}
		return a.Kind == field.KindNull
	}

	less := nativeLess(a, b)
	if dir == Descending {
		return !less && a != b
	}
	return less
}

func nativeLess(a, b field.Value) bool {
	if a.Kind == b.Kind {
		switch a.Kind {
		case field.KindNumber:
			return a.Num < b.Num
		case field.KindBool:
			return !a.Bool && b.Bool
		case field.KindString:
			return a.Str < b.Str
		}
	}
	return strings.Compare(a.String(), b.String()) < 0
}
