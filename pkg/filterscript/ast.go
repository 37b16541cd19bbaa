// Package filterscript implements spec.md §4.8's filter expression
// language: a typed AST, a bytecode compiler, a stack VM, and the
// "INFISCRIPT-V1" binary serialization of compiled filters. The
// package is deliberately decoupled from pkg/document and pkg/field —
// it reads document state through the FieldAccessor interface, so
// pkg/engine is the only caller that needs to know both vocabularies.
package filterscript

// Kind tags a Filter node's variant. Filter is a single struct rather
// than an interface hierarchy (spec.md §9 Design Note "Polymorphic
// filter AST"): the compiler switches on Kind instead of doing a type
// switch over implementations, which keeps the zero-allocation jump
// table in compile.go simple.
type Kind int

const (
	KindValue   Kind = iota // field <CompareOp> Value
	KindRange               // field BETWEEN Min AND Max
	KindIn                  // field IN (Values...)
	KindString              // field <StrOp> Pattern (CONTAINS/STARTS_WITH/ENDS_WITH/LIKE)
	KindRegex               // field MATCHES Pattern
	KindNull                // field IS [NOT] NULL
	KindTernary             // Cond ? Then : Else
	KindLiteral             // a bare constant, used as a boolean sub-expression
	KindAnd                 // Left AND Right
	KindOr                  // Left OR Right
	KindNot                 // NOT Operand
	KindDerived             // an opaque Go predicate; never compiles to bytecode
)

// CompareOp is the comparison used by a KindValue node.
type CompareOp int

const (
	OpEQ CompareOp = iota
	OpNEQ
	OpLT
	OpLTE
	OpGT
	OpGTE
)

// StringOp is the string predicate used by a KindString node.
type StringOp int

const (
	StrContains StringOp = iota
	StrStartsWith
	StrEndsWith
	StrLike
)

// Filter is a single filter expression tree node. Only the fields
// relevant to Kind are populated; the rest are left zero.
type Filter struct {
	Kind Kind

	Field string // KindValue, KindRange, KindIn, KindString, KindRegex, KindNull

	CompareOp CompareOp   // KindValue
	Value     FilterValue // KindValue, KindLiteral

	Min, Max FilterValue // KindRange

	Values []FilterValue // KindIn

	StrOp   StringOp // KindString
	Pattern string   // KindString, KindRegex

	Negate bool // KindNull: true means IS NOT NULL

	Cond, Then, Else *Filter // KindTernary

	Left, Right *Filter // KindAnd, KindOr
	Operand     *Filter // KindNot

	Derived func(doc FieldAccessor) bool // KindDerived
}

// Val builds a KindValue comparison filter.
func Val(field string, op CompareOp, v FilterValue) *Filter {
	return &Filter{Kind: KindValue, Field: field, CompareOp: op, Value: v}
}

// Between builds a KindRange filter.
func Between(field string, min, max FilterValue) *Filter {
	return &Filter{Kind: KindRange, Field: field, Min: min, Max: max}
}

// In builds a KindIn filter.
func In(field string, values ...FilterValue) *Filter {
	return &Filter{Kind: KindIn, Field: field, Values: values}
}

// Str builds a KindString filter.
func Str(field string, op StringOp, pattern string) *Filter {
	return &Filter{Kind: KindString, Field: field, StrOp: op, Pattern: pattern}
}

// Matches builds a KindRegex filter.
func Matches(field, pattern string) *Filter {
	return &Filter{Kind: KindRegex, Field: field, Pattern: pattern}
}

// IsNull builds a KindNull filter; negate selects IS NOT NULL.
func IsNull(field string, negate bool) *Filter {
	return &Filter{Kind: KindNull, Field: field, Negate: negate}
}

// And, Or, Not combine sub-filters.
func And(left, right *Filter) *Filter { return &Filter{Kind: KindAnd, Left: left, Right: right} }
func Or(left, right *Filter) *Filter  { return &Filter{Kind: KindOr, Left: left, Right: right} }
func Not(operand *Filter) *Filter     { return &Filter{Kind: KindNot, Operand: operand} }
