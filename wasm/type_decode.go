package wasm

import "github.com/charlieprice/wasmcore/leb128"

// readValueType reads one of the four value-type tag bytes.
func readValueType(s *Stream) (ValueType, error) {
	b, err := s.ConsumeIn(byte(ValueTypeI32), byte(ValueTypeI64), byte(ValueTypeF32), byte(ValueTypeF64))
	if err != nil {
		return 0, err
	}
	return ValueType(int8(b)), nil
}

// readBlockResultType reads a block's result type: either the empty
// tag 0x40 or a single value type, per the MVP's single-result rule.
func readBlockResultType(s *Stream) (ResultType, error) {
	b, err := s.Peek()
	if err != nil {
		return nil, err
	}
	if b == blockTypeEmpty {
		s.Consume()
		return nil, nil
	}
	vt, err := readValueType(s)
	if err != nil {
		return nil, err
	}
	return ResultType{vt}, nil
}

// readFuncType reads a 0x60-tagged function type: parameter types then
// result types.
func readFuncType(s *Stream) (FuncType, error) {
	if err := s.ConsumeExpected(funcTypeForm); err != nil {
		return FuncType{}, err
	}
	params, err := readVec(s, readValueType)
	if err != nil {
		return FuncType{}, err
	}
	results, err := readVec(s, readValueType)
	if err != nil {
		return FuncType{}, err
	}
	if len(results) > 1 {
		return FuncType{}, &DecodeError{Kind: ErrUnexpected, Position: s.Position(), Found: byte(len(results))}
	}
	return FuncType{Params: params, Results: ResultType(results)}, nil
}

// readElemType reads the table element type tag; the MVP only allows
// funcref.
func readElemType(s *Stream) error {
	return s.ConsumeExpected(elemTypeFuncRef)
}

// readLimits reads a {min, max?} pair, flagged by a leading 0x00/0x01
// byte.
func readLimits(s *Stream) (Limits, error) {
	flag, err := s.ConsumeIn(0x00, 0x01)
	if err != nil {
		return Limits{}, err
	}
	min, err := leb128.ReadUint32(s)
	if err != nil {
		return Limits{}, err
	}
	limits := Limits{Min: min}
	if flag == 0x01 {
		max, err := leb128.ReadUint32(s)
		if err != nil {
			return Limits{}, err
		}
		limits.Max = &max
	}
	return limits, nil
}

// readTableType reads a table type: element tag then limits.
func readTableType(s *Stream) (TableType, error) {
	if err := readElemType(s); err != nil {
		return TableType{}, err
	}
	limits, err := readLimits(s)
	if err != nil {
		return TableType{}, err
	}
	return TableType{Limits: limits}, nil
}

// readMemType reads a memory type: just limits, in page units.
func readMemType(s *Stream) (MemType, error) {
	limits, err := readLimits(s)
	if err != nil {
		return MemType{}, err
	}
	return MemType{Limits: limits}, nil
}

// readMut reads a global's mutability flag.
func readMut(s *Stream) (Mut, error) {
	b, err := s.ConsumeIn(byte(MutConst), byte(MutVar))
	if err != nil {
		return 0, err
	}
	return Mut(b), nil
}

// readGlobalType reads a global's value type then its mutability.
func readGlobalType(s *Stream) (GlobalType, error) {
	vt, err := readValueType(s)
	if err != nil {
		return GlobalType{}, err
	}
	mut, err := readMut(s)
	if err != nil {
		return GlobalType{}, err
	}
	return GlobalType{ValType: vt, Mut: mut}, nil
}
