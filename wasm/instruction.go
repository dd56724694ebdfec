package wasm

import "github.com/charlieprice/wasmcore/leb128"

// MemArg is the {align, offset} immediate pair carried by every
// load/store instruction.
type MemArg struct {
	Align  uint32
	Offset uint32
}

// Block is the nested body of a block/loop/if instruction.
type Block struct {
	Result ResultType
	Then   []Instruction
	Else   []Instruction // only populated for `if`
}

// BrTable is the immediate of a br_table instruction: a vector of
// labels plus a default taken when the index is out of range.
type BrTable struct {
	Labels  []LabelIdx
	Default LabelIdx
}

// Instruction is a tagged sum over the five instruction families in
// §3: Op discriminates the family and the specific operation, and
// only the fields relevant to that Op are populated. This flat,
// single-type design replaces the teacher's (and the Swift original's)
// per-opcode execution path with one the decoder can build without any
// type hierarchy, per the instructions-as-tagged-sum design note.
type Instruction struct {
	Op Opcode

	// Control: block/loop/if.
	Block *Block
	// Control: br_table.
	BrTable *BrTable
	// Control: br, br_if.
	Label LabelIdx
	// Control: call.
	FuncIdx FuncIdx
	// Control: call_indirect.
	CallIndirectType TypeIdx

	// Variable: local.{get,set,tee}.
	LocalIdx LocalIdx
	// Variable: global.{get,set}.
	GlobalIdx GlobalIdx

	// Memory: load/store family.
	MemArg MemArg

	// Numeric constants.
	ConstI32 int32
	ConstI64 int64
	ConstF32 float32
	ConstF64 float64
}

// decodeInstruction reads one instruction, recursing into the
// expression decoder for the nested bodies of block/loop/if. opcode
// has already been consumed by the caller (the expression decoder),
// which needs to see it first to recognize end/else terminators.
func decodeInstruction(s *Stream, op Opcode) (Instruction, error) {
	ins := Instruction{Op: op}
	switch op {
	case OpUnreachable, OpNop, OpReturn, OpDrop, OpSelect:
		// no immediates

	case OpBlock, OpLoop:
		rt, err := readBlockResultType(s)
		if err != nil {
			return ins, err
		}
		body, _, err := decodeExpression(s)
		if err != nil {
			return ins, err
		}
		ins.Block = &Block{Result: rt, Then: body}

	case OpIf:
		rt, err := readBlockResultType(s)
		if err != nil {
			return ins, err
		}
		then, sawElse, err := decodeIfBody(s)
		if err != nil {
			return ins, err
		}
		block := &Block{Result: rt, Then: then}
		if sawElse {
			elseBody, _, err := decodeExpression(s)
			if err != nil {
				return ins, err
			}
			block.Else = elseBody
		}
		ins.Block = block

	case OpBr, OpBrIf:
		label, err := leb128.ReadUint32(s)
		if err != nil {
			return ins, err
		}
		ins.Label = LabelIdx(label)

	case OpBrTable:
		labels, err := readVec(s, readLabelIdx)
		if err != nil {
			return ins, err
		}
		def, err := leb128.ReadUint32(s)
		if err != nil {
			return ins, err
		}
		ins.BrTable = &BrTable{Labels: labels, Default: LabelIdx(def)}

	case OpCall:
		idx, err := leb128.ReadUint32(s)
		if err != nil {
			return ins, err
		}
		ins.FuncIdx = FuncIdx(idx)

	case OpCallIndirect:
		idx, err := leb128.ReadUint32(s)
		if err != nil {
			return ins, err
		}
		// trailing reserved table-index byte, always 0 in the MVP
		if err := s.ConsumeExpected(0x00); err != nil {
			return ins, err
		}
		ins.CallIndirectType = TypeIdx(idx)

	case OpLocalGet, OpLocalSet, OpLocalTee:
		idx, err := leb128.ReadUint32(s)
		if err != nil {
			return ins, err
		}
		ins.LocalIdx = LocalIdx(idx)

	case OpGlobalGet, OpGlobalSet:
		idx, err := leb128.ReadUint32(s)
		if err != nil {
			return ins, err
		}
		ins.GlobalIdx = GlobalIdx(idx)

	case OpMemorySize, OpMemoryGrow:
		if err := s.ConsumeExpected(0x00); err != nil {
			return ins, err
		}

	case OpI32Const:
		v, err := leb128.ReadInt32(s)
		if err != nil {
			return ins, err
		}
		ins.ConstI32 = v

	case OpI64Const:
		v, err := leb128.ReadInt64(s)
		if err != nil {
			return ins, err
		}
		ins.ConstI64 = v

	case OpF32Const:
		v, err := readF32(s)
		if err != nil {
			return ins, err
		}
		ins.ConstF32 = v

	case OpF64Const:
		v, err := readF64(s)
		if err != nil {
			return ins, err
		}
		ins.ConstF64 = v

	default:
		if op >= OpI32Load && op <= OpI64Store32 {
			align, err := leb128.ReadUint32(s)
			if err != nil {
				return ins, err
			}
			offset, err := leb128.ReadUint32(s)
			if err != nil {
				return ins, err
			}
			ins.MemArg = MemArg{Align: align, Offset: offset}
			return ins, nil
		}
		if isBareNumericOp(op) {
			return ins, nil
		}
		return ins, &DecodeError{Kind: ErrUnexpected, Position: s.Position() - 1, Found: byte(op)}
	}
	return ins, nil
}

func readLabelIdx(s *Stream) (LabelIdx, error) {
	v, err := leb128.ReadUint32(s)
	return LabelIdx(v), err
}
