package filterscript

import "strings"

type constKind int

const (
	constScalar constKind = iota
	constArray
)

type constEntry struct {
	kind  constKind
	value FilterValue // constScalar (field names are stored here too, as strings)
	array []string    // constArray, used by IN
}

// ConstantPool is a value-deduplicating sequence of scalars and
// string arrays that a CompiledFilter's PUSH_FIELD/PUSH_CONST
// operands index into (spec.md §4.8 "ConstantPool"). Field names
// share the scalar table with literal values, since both are just
// strings the VM looks up or pushes verbatim.
type ConstantPool struct {
	entries []constEntry

	scalarIndex map[FilterValue]int
	arrayIndex  map[string]int
}

// NewConstantPool returns an empty pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		scalarIndex: make(map[FilterValue]int),
		arrayIndex:  make(map[string]int),
	}
}

// AddScalar interns v, returning its (possibly reused) index.
func (p *ConstantPool) AddScalar(v FilterValue) int {
	if i, ok := p.scalarIndex[v]; ok {
		return i
	}
	i := len(p.entries)
	p.entries = append(p.entries, constEntry{kind: constScalar, value: v})
	p.scalarIndex[v] = i
	return i
}

// AddField interns a field name for use as a PUSH_FIELD operand.
func (p *ConstantPool) AddField(name string) int {
	return p.AddScalar(StringValue(name))
}

// AddStringArray interns arr, deduplicated by its joined contents.
func (p *ConstantPool) AddStringArray(arr []string) int {
	key := strings.Join(arr, "\x00")
	if i, ok := p.arrayIndex[key]; ok {
		return i
	}
	i := len(p.entries)
	p.entries = append(p.entries, constEntry{kind: constArray, array: arr})
	p.arrayIndex[key] = i
	return i
}

func (p *ConstantPool) entryAt(i int) (constEntry, bool) {
	if i < 0 || i >= len(p.entries) {
		return constEntry{}, false
	}
	return p.entries[i], true
}

// Scalar returns the scalar constant at i.
func (p *ConstantPool) Scalar(i int) FilterValue {
	e, _ := p.entryAt(i)
	return e.value
}

// FieldName returns the field name interned at i (same table as Scalar).
func (p *ConstantPool) FieldName(i int) string {
	e, _ := p.entryAt(i)
	return e.value.Str
}

// StringArray returns the array constant at i.
func (p *ConstantPool) StringArray(i int) []string {
	e, _ := p.entryAt(i)
	return e.array
}

// isArray reports whether the constant at i is a string array.
func (p *ConstantPool) isArray(i int) bool {
	e, ok := p.entryAt(i)
	return ok && e.kind == constArray
}
