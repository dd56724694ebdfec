package wasm

// decodeExpression reads instructions until it consumes the `end`
// (0x0B) terminator, returning the instruction list with the
// terminator excluded. Per the corrected invariant in the decoder's
// design notes, `end`/`else` are structural sentinels consumed here,
// never instructions the caller sees — the teacher's own test fixtures
// let `end` leak into the returned list, which this implementation
// deliberately does not reproduce.
func decodeExpression(s *Stream) ([]Instruction, byte, error) {
	var list []Instruction
	for {
		opByte, err := s.Consume()
		if err != nil {
			return nil, 0, err
		}
		op := Opcode(opByte)
		if op == OpEnd {
			return list, opByte, nil
		}
		ins, err := decodeInstruction(s, op)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, ins)
	}
}

// decodeIfBody reads the then-branch of an `if`, stopping at whichever
// terminator comes first: `else` (sawElse=true, caller must then decode
// the else-branch as a regular expression) or `end` directly
// (sawElse=false, the else-branch is implicitly empty).
func decodeIfBody(s *Stream) (then []Instruction, sawElse bool, err error) {
	for {
		opByte, err := s.Consume()
		if err != nil {
			return nil, false, err
		}
		op := Opcode(opByte)
		if op == OpEnd {
			return then, false, nil
		}
		if op == OpElse {
			return then, true, nil
		}
		ins, err := decodeInstruction(s, op)
		if err != nil {
			return nil, false, err
		}
		then = append(then, ins)
	}
}
