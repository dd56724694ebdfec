package wasm

import "io"

// Magic is the 4-byte `\0asm` preamble every module starts with.
const Magic uint32 = 0x6d736100

// Version is the only binary format version the MVP decoder accepts.
const Version uint32 = 0x1

// Function is a module-defined function: the index of its declared
// type, its expanded local-variable types, and its decoded body.
type Function struct {
	TypeIdx TypeIdx
	Locals  []ValueType
	Body    []Instruction
}

// Module is the fully decoded, structurally-validated representation
// of a binary module, per §3. It is plain data: freely duplicable, and
// produced once per decode with no further mutation expected of the
// decoder itself (the store allocator in package store builds runtime
// instances from it without touching these fields).
type Module struct {
	Types   []FuncType
	Funcs   []Function
	Tables  []TableType
	Mems    []MemType
	Globals []Global
	Elems   []Element
	Datas   []Data
	Start   *FuncIdx
	Imports []Import
	Exports []Export
	Customs []CustomSection
}

// Decode reads a complete binary module from r and returns its
// in-memory representation, or the first DecodeError encountered. A
// failed decode never returns a partial Module.
func Decode(r io.Reader) (*Module, error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := NewStream(all)

	if err := readPreamble(s); err != nil {
		return nil, err
	}

	p, err := decodeSections(s)
	if err != nil {
		return nil, err
	}

	return assemble(p)
}

func readPreamble(s *Stream) error {
	magic, err := readU32(s)
	if err != nil {
		return err
	}
	if magic != Magic {
		return &DecodeError{Kind: ErrInvalidPreamble, Position: 0, Declared: Magic, Actual: magic}
	}
	version, err := readU32(s)
	if err != nil {
		return err
	}
	if version != Version {
		return &DecodeError{Kind: ErrInvalidPreamble, Position: 4, Declared: Version, Actual: version}
	}
	return nil
}

// assemble performs the §4.H module-assembly step: the function
// section's type indices are zipped positionally against the code
// section's entries into Module.Funcs. If one of the two sections is
// present without the other, or their lengths differ, the module is
// malformed — this is the one structural invariant (§3 invariant 3)
// that spans two sections rather than living inside a single one.
func assemble(p *parsed) (*Module, error) {
	if len(p.FuncTypeIdx) != len(p.Codes) {
		return nil, &DecodeError{Kind: ErrFunctionCodeMismatch}
	}

	funcs := make([]Function, len(p.FuncTypeIdx))
	for i := range funcs {
		funcs[i] = Function{
			TypeIdx: p.FuncTypeIdx[i],
			Locals:  p.Codes[i].Locals,
			Body:    p.Codes[i].Body,
		}
	}

	return &Module{
		Types:   p.Types,
		Funcs:   funcs,
		Tables:  p.Tables,
		Mems:    p.Mems,
		Globals: p.Globals,
		Elems:   p.Elems,
		Datas:   p.Datas,
		Start:   p.Start,
		Imports: p.Imports,
		Exports: p.Exports,
		Customs: p.Customs,
	}, nil
}
