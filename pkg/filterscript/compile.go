package filterscript

import (
	"fmt"
	"regexp"
)

// Compile walks a filter AST into bytecode (spec.md §4.8 "Bytecode
// compiler"). AND/OR compile with short-circuit jumps: the left
// operand's result is duplicated and conditionally jumps over the
// right, so the right operand never evaluates when it cannot change
// the outcome.
func Compile(f *Filter) (*CompiledFilter, error) {
	c := &compiler{pool: NewConstantPool()}
	if err := c.compileNode(f); err != nil {
		return nil, err
	}
	c.emit(OpHalt, 0)
	return &CompiledFilter{Constants: c.pool, Instructions: c.instr}, nil
}

type compiler struct {
	pool  *ConstantPool
	instr []Instr
}

func (c *compiler) emit(op Opcode, operand int) int {
	c.instr = append(c.instr, Instr{Op: op, Operand: operand})
	return len(c.instr) - 1
}

func (c *compiler) patch(pos, target int) {
	c.instr[pos].Operand = target
}

func (c *compiler) compileNode(f *Filter) error {
	if f == nil {
		return fmt.Errorf("%w: nil filter node", ErrInvalidFilterAST)
	}

	switch f.Kind {
	case KindLiteral:
		c.emit(OpPushConst, c.pool.AddScalar(f.Value))

	case KindValue:
		c.emit(OpPushField, c.pool.AddField(f.Field))
		c.emit(OpPushConst, c.pool.AddScalar(f.Value))
		c.emit(compareOpcode(f.CompareOp), 0)

	case KindRange:
		c.emit(OpPushField, c.pool.AddField(f.Field))
		c.emit(OpPushConst, c.pool.AddScalar(f.Min))
		c.emit(OpPushConst, c.pool.AddScalar(f.Max))
		c.emit(OpBetween, 0)

	case KindIn:
		values := make([]string, len(f.Values))
		for i, v := range f.Values {
			values[i] = v.AsString()
		}
		c.emit(OpPushField, c.pool.AddField(f.Field))
		c.emit(OpPushConst, c.pool.AddStringArray(values))
		c.emit(OpIn, 0)

	case KindString:
		if f.StrOp == StrLike {
			if _, err := regexp.Compile(likeToRegex(f.Pattern)); err != nil {
				return fmt.Errorf("%w: %v", ErrRegexCompile, err)
			}
		}
		c.emit(OpPushField, c.pool.AddField(f.Field))
		c.emit(OpPushConst, c.pool.AddScalar(StringValue(f.Pattern)))
		c.emit(stringOpcode(f.StrOp), 0)

	case KindRegex:
		if _, err := regexp.Compile(f.Pattern); err != nil {
			return fmt.Errorf("%w: %v", ErrRegexCompile, err)
		}
		c.emit(OpPushField, c.pool.AddField(f.Field))
		c.emit(OpPushConst, c.pool.AddScalar(StringValue(f.Pattern)))
		c.emit(OpMatches, 0)

	case KindNull:
		c.emit(OpPushField, c.pool.AddField(f.Field))
		if f.Negate {
			c.emit(OpIsNotNull, 0)
		} else {
			c.emit(OpIsNull, 0)
		}

	case KindNot:
		if err := c.compileNode(f.Operand); err != nil {
			return err
		}
		c.emit(OpNot, 0)

	case KindAnd:
		if err := c.compileNode(f.Left); err != nil {
			return err
		}
		c.emit(OpDup, 0)
		jumpOverRight := c.emit(OpJumpIfFalse, -1)
		c.emit(OpPop, 0)
		if err := c.compileNode(f.Right); err != nil {
			return err
		}
		c.patch(jumpOverRight, len(c.instr))

	case KindOr:
		if err := c.compileNode(f.Left); err != nil {
			return err
		}
		c.emit(OpDup, 0)
		jumpOverRight := c.emit(OpJumpIfTrue, -1)
		c.emit(OpPop, 0)
		if err := c.compileNode(f.Right); err != nil {
			return err
		}
		c.patch(jumpOverRight, len(c.instr))

	case KindTernary:
		if err := c.compileNode(f.Cond); err != nil {
			return err
		}
		jumpToElse := c.emit(OpJumpIfFalse, -1)
		if err := c.compileNode(f.Then); err != nil {
			return err
		}
		jumpToEnd := c.emit(OpJump, -1)
		c.patch(jumpToElse, len(c.instr))
		if err := c.compileNode(f.Else); err != nil {
			return err
		}
		c.patch(jumpToEnd, len(c.instr))

	case KindDerived:
		return fmt.Errorf("%w: custom predicate filters cannot be compiled to bytecode", ErrInvalidFilterAST)

	default:
		return fmt.Errorf("%w: unknown filter node kind %d", ErrInvalidFilterAST, f.Kind)
	}
	return nil
}

func compareOpcode(op CompareOp) Opcode {
	switch op {
	case OpEQ:
		return OpEq
	case OpNEQ:
		return OpNeq
	case OpLT:
		return OpLt
	case OpLTE:
		return OpLte
	case OpGT:
		return OpGt
	case OpGTE:
		return OpGte
	default:
		return OpEq
	}
}

func stringOpcode(op StringOp) Opcode {
	switch op {
	case StrContains:
		return OpContains
	case StrStartsWith:
		return OpStartsWith
	case StrEndsWith:
		return OpEndsWith
	case StrLike:
		return OpLike
	default:
		return OpContains
	}
}
