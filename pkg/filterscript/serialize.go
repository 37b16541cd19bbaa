package filterscript

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	kbinary "github.com/kelindar/binary"
)

const (
	bytecodeMagic   = "INFISCRIPT-V1"
	bytecodeVersion = uint16(1)
)

// serializedEntry is the kelindar/binary-friendly mirror of
// constEntry: the live ConstantPool's dedup maps aren't meant to
// round-trip, only its ordered entries are.
type serializedEntry struct {
	IsArray bool
	Scalar  FilterValue
	Array   []string
}

// Serialize encodes cf as an "INFISCRIPT-V1" blob: magic, u16
// version, the constant pool (kelindar/binary-encoded, length
// prefixed), then the instruction stream (opcode byte, operand int32
// only for opcodes that carry one) (spec.md §4.8 "Serialization").
func Serialize(cf *CompiledFilter) ([]byte, error) {
	entries := make([]serializedEntry, len(cf.Constants.entries))
	for i, e := range cf.Constants.entries {
		entries[i] = serializedEntry{IsArray: e.kind == constArray, Scalar: e.value, Array: e.array}
	}
	poolBytes, err := kbinary.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("filterscript: encode constant pool: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(bytecodeMagic)
	if err := binary.Write(&buf, binary.LittleEndian, bytecodeVersion); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(poolBytes))); err != nil {
		return nil, err
	}
	buf.Write(poolBytes)

	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(cf.Instructions))); err != nil {
		return nil, err
	}
	for _, in := range cf.Instructions {
		buf.WriteByte(byte(in.Op))
		if opHasOperand(in.Op) {
			if err := binary.Write(&buf, binary.LittleEndian, int32(in.Operand)); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

// Deserialize decodes a blob produced by Serialize.
func Deserialize(data []byte) (*CompiledFilter, error) {
	if len(data) < len(bytecodeMagic)+2+4 {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidBytecode)
	}
	if string(data[:len(bytecodeMagic)]) != bytecodeMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidBytecode)
	}

	r := bytes.NewReader(data[len(bytecodeMagic):])

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBytecode, err)
	}
	if version != bytecodeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidBytecode, version)
	}

	var poolLen uint32
	if err := binary.Read(r, binary.LittleEndian, &poolLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBytecode, err)
	}
	poolBytes := make([]byte, poolLen)
	if _, err := io.ReadFull(r, poolBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBytecode, err)
	}

	var entries []serializedEntry
	if err := kbinary.Unmarshal(poolBytes, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode constant pool: %v", ErrInvalidBytecode, err)
	}

	pool := NewConstantPool()
	for _, e := range entries {
		if e.IsArray {
			pool.entries = append(pool.entries, constEntry{kind: constArray, array: e.Array})
		} else {
			pool.entries = append(pool.entries, constEntry{kind: constScalar, value: e.Scalar})
		}
	}

	var instrCount uint32
	if err := binary.Read(r, binary.LittleEndian, &instrCount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBytecode, err)
	}
	instrs := make([]Instr, 0, instrCount)
	for i := uint32(0); i < instrCount; i++ {
		opByte, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBytecode, err)
		}
		op := Opcode(opByte)
		if !validOpcode(op) {
			return nil, fmt.Errorf("%w: unknown opcode %d", ErrInvalidBytecode, op)
		}
		operand := 0
		if opHasOperand(op) {
			var o int32
			if err := binary.Read(r, binary.LittleEndian, &o); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidBytecode, err)
			}
			operand = int(o)
		}
		instrs = append(instrs, Instr{Op: op, Operand: operand})
	}

	return &CompiledFilter{Constants: pool, Instructions: instrs}, nil
}
