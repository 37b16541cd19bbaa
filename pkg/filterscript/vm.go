package filterscript

import (
	"regexp"
	"strings"
)

// stackVal is a VM stack slot: either a scalar FilterValue or a
// string array (the latter only ever produced by PUSH_CONST for an
// IN operand, and only ever consumed by OpIn).
type stackVal struct {
	isArray bool
	scalar  FilterValue
	array   []string
}

// VM evaluates a CompiledFilter against one document at a time. It
// is not safe for concurrent use; pkg/engine gives each worker its
// own VM (spec.md §4.8 "Stack VM").
type VM struct {
	stack []stackVal
}

// NewVM returns a VM with no stack allocated yet.
func NewVM() *VM { return &VM{} }

func (vm *VM) push(v stackVal) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() stackVal {
	if len(vm.stack) == 0 {
		return stackVal{scalar: NullValue}
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek() stackVal {
	if len(vm.stack) == 0 {
		return stackVal{scalar: NullValue}
	}
	return vm.stack[len(vm.stack)-1]
}

func scalarVal(v FilterValue) stackVal { return stackVal{scalar: v} }
func boolVal(b bool) stackVal          { return stackVal{scalar: BoolValue(b)} }

// Run executes cf against doc and returns the boolean result left on
// the stack when HALT is reached. A malformed regex pattern (MATCHES)
// is treated as a non-match rather than an error, since the pattern
// was already validated at compile time and a runtime failure here
// can only come from a hand-built or corrupted bytecode blob.
func (vm *VM) Run(cf *CompiledFilter, doc FieldAccessor) (bool, error) {
	vm.stack = vm.stack[:0]
	ip := 0

	for ip < len(cf.Instructions) {
		instr := cf.Instructions[ip]

		switch instr.Op {
		case OpHalt:
			ip = len(cf.Instructions)
			continue

		case OpPushField:
			vm.push(scalarVal(fieldScalar(doc, cf.Constants.FieldName(instr.Operand))))

		case OpPushConst:
			if cf.Constants.isArray(instr.Operand) {
				vm.push(stackVal{isArray: true, array: cf.Constants.StringArray(instr.Operand)})
			} else {
				vm.push(scalarVal(cf.Constants.Scalar(instr.Operand)))
			}

		case OpPop:
			vm.pop()

		case OpDup:
			vm.push(vm.peek())

		case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte:
			b := vm.pop()
			a := vm.pop()
			vm.push(boolVal(compareValues(opToCompareOp(instr.Op), a.scalar, b.scalar)))

		case OpAnd:
			b := vm.pop()
			a := vm.pop()
			vm.push(boolVal(truthy(a.scalar) && truthy(b.scalar)))

		case OpOr:
			b := vm.pop()
			a := vm.pop()
			vm.push(boolVal(truthy(a.scalar) || truthy(b.scalar)))

		case OpNot:
			a := vm.pop()
			vm.push(boolVal(!truthy(a.scalar)))

		case OpContains, OpStartsWith, OpEndsWith, OpLike, OpMatches:
			pattern := vm.pop()
			fieldVal := vm.pop()
			vm.push(boolVal(stringMatch(instr.Op, fieldVal.scalar, pattern.scalar)))

		case OpIn:
			set := vm.pop()
			fieldVal := vm.pop()
			vm.push(boolVal(inSet(fieldVal.scalar, set.array)))

		case OpBetween:
			max := vm.pop()
			min := vm.pop()
			fieldVal := vm.pop()
			vm.push(boolVal(between(fieldVal.scalar, min.scalar, max.scalar)))

		case OpIsNull:
			a := vm.pop()
			vm.push(boolVal(a.scalar.Kind == KindNullValue))

		case OpIsNotNull:
			a := vm.pop()
			vm.push(boolVal(a.scalar.Kind != KindNullValue))

		case OpJump:
			ip = instr.Operand
			continue

		case OpJumpIfFalse:
			if !truthy(vm.peek().scalar) {
				ip = instr.Operand
				continue
			}

		case OpJumpIfTrue:
			if truthy(vm.peek().scalar) {
				ip = instr.Operand
				continue
			}
		}
		ip++
	}

	if len(vm.stack) == 0 {
		return false, nil
	}
	return truthy(vm.stack[len(vm.stack)-1].scalar), nil
}

func opToCompareOp(op Opcode) CompareOp {
	switch op {
	case OpEq:
		return OpEQ
	case OpNeq:
		return OpNEQ
	case OpLt:
		return OpLT
	case OpLte:
		return OpLTE
	case OpGt:
		return OpGT
	case OpGte:
		return OpGTE
	default:
		return OpEQ
	}
}

func stringMatch(op Opcode, fieldVal, pattern FilterValue) bool {
	s := strings.ToLower(fieldVal.AsString())
	p := strings.ToLower(pattern.AsString())

	switch op {
	case OpContains:
		return strings.Contains(s, p)
	case OpStartsWith:
		return strings.HasPrefix(s, p)
	case OpEndsWith:
		return strings.HasSuffix(s, p)
	case OpLike:
		re, err := regexp.Compile(likeToRegex(p))
		if err != nil {
			return false
		}
		return re.MatchString(s)
	case OpMatches:
		re, err := regexp.Compile("(?i)" + pattern.AsString())
		if err != nil {
			return false
		}
		return re.MatchString(fieldVal.AsString())
	default:
		return false
	}
}

// likeToRegex translates a SQL-style LIKE pattern (% = any run of
// characters, _ = exactly one) into an anchored regex.
func likeToRegex(pattern string) string {
	var sb strings.Builder
	sb.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return sb.String()
}

// NumberOfDocumentsInFilter runs cf against every document in docs and
// returns how many match. It counts afresh on each call; the result is
// not cached.
func NumberOfDocumentsInFilter(cf *CompiledFilter, docs DocumentSet) int {
	vm := NewVM()
	count := 0
	for i := 0; i < docs.Count(); i++ {
		doc, ok := docs.At(i)
		if !ok {
			continue
		}
		if matched, err := vm.Run(cf, doc); err == nil && matched {
			count++
		}
	}
	return count
}
