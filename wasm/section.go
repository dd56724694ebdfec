package wasm

import (
	"github.com/sirupsen/logrus"

	"github.com/charlieprice/wasmcore/leb128"
)

// Section ids, in the order §4.G requires standard sections to appear.
const (
	secCustom   byte = 0
	secType     byte = 1
	secImport   byte = 2
	secFunction byte = 3
	secTable    byte = 4
	secMemory   byte = 5
	secGlobal   byte = 6
	secExport   byte = 7
	secStart    byte = 8
	secElement  byte = 9
	secCode     byte = 10
	secData     byte = 11
)

// codeEntry is a raw code-section entry, paired against the
// function section's type indices by the module assembler (§4.H).
type codeEntry struct {
	Locals []ValueType
	Body   []Instruction
}

// parsed accumulates section contents across the framer's loop before
// the module assembler zips FuncTypeIdx with Codes.
type parsed struct {
	Types       []FuncType
	Imports     []Import
	FuncTypeIdx []TypeIdx
	Tables      []TableType
	Mems        []MemType
	Globals     []Global
	Exports     []Export
	Start       *FuncIdx
	Elems       []Element
	Codes       []codeEntry
	Datas       []Data
	Customs     []CustomSection
}

// decodeSections drives the section framer: read id, read declared
// size, decode the body from a size-bounded sub-stream, and verify
// that the body decoder consumed exactly the declared number of bytes.
// Standard section ids must appear in strictly increasing order;
// custom sections (id 0) are exempt and may appear anywhere, any
// number of times, per §4.G. The loop is driven by the peeked id
// rather than a counter, per the "module assembly order" design note:
// a counter that only advances when it matches the next id can skip a
// section whose id legitimately repeats the counter's value.
func decodeSections(s *Stream) (*parsed, error) {
	p := &parsed{}
	var lastStdID byte
	haveLastStd := false

	for {
		id, err := s.Peek()
		if err != nil {
			break // clean end of stream: no more sections
		}
		s.Consume()

		if id != secCustom {
			if haveLastStd && id <= lastStdID {
				return nil, &DecodeError{
					Kind:      ErrSectionOrder,
					Position:  s.Position(),
					SeenID:    lastStdID,
					CurrentID: id,
				}
			}
			lastStdID = id
			haveLastStd = true
		}

		declaredSize, err := leb128.ReadUint32(s)
		if err != nil {
			return nil, err
		}
		body, err := s.Sub(declaredSize)
		if err != nil {
			return nil, err
		}

		logrus.WithFields(logrus.Fields{"section_id": id, "size": declaredSize}).Debug("decoding section")
		if err := decodeSectionBody(p, id, body); err != nil {
			return nil, err
		}
		if body.Remaining() != 0 {
			return nil, &DecodeError{
				Kind:     ErrInvalidSectionSize,
				Position: s.Position(),
				Declared: declaredSize,
				Actual:   declaredSize - uint32(body.Remaining()),
			}
		}
	}
	return p, nil
}

func decodeSectionBody(p *parsed, id byte, s *Stream) error {
	switch id {
	case secCustom:
		name, err := readName(s)
		if err != nil {
			return err
		}
		data := s.b[s.pos:]
		s.pos = uint64(len(s.b))
		p.Customs = append(p.Customs, CustomSection{Name: name, Data: data})
		return nil
	case secType:
		types, err := readVec(s, readFuncType)
		if err != nil {
			return err
		}
		p.Types = types
		return nil
	case secImport:
		imports, err := readVec(s, readImport)
		if err != nil {
			return err
		}
		p.Imports = imports
		return nil
	case secFunction:
		idxs, err := readVec(s, readTypeIdx)
		if err != nil {
			return err
		}
		p.FuncTypeIdx = idxs
		return nil
	case secTable:
		tables, err := readVec(s, readTableType)
		if err != nil {
			return err
		}
		p.Tables = tables
		return nil
	case secMemory:
		mems, err := readVec(s, readMemType)
		if err != nil {
			return err
		}
		p.Mems = mems
		return nil
	case secGlobal:
		globals, err := readVec(s, readGlobal)
		if err != nil {
			return err
		}
		p.Globals = globals
		return nil
	case secExport:
		exports, err := readVec(s, readExport)
		if err != nil {
			return err
		}
		p.Exports = exports
		return nil
	case secStart:
		idx, err := leb128.ReadUint32(s)
		if err != nil {
			return err
		}
		fidx := FuncIdx(idx)
		p.Start = &fidx
		return nil
	case secElement:
		elems, err := readVec(s, readElement)
		if err != nil {
			return err
		}
		p.Elems = elems
		return nil
	case secCode:
		codes, err := readVec(s, readCodeEntry)
		if err != nil {
			return err
		}
		p.Codes = codes
		return nil
	case secData:
		datas, err := readVec(s, readData)
		if err != nil {
			return err
		}
		p.Datas = datas
		return nil
	default:
		return &DecodeError{Kind: ErrUnexpected, Position: s.Position(), Found: id}
	}
}

func readTypeIdx(s *Stream) (TypeIdx, error) {
	v, err := leb128.ReadUint32(s)
	return TypeIdx(v), err
}

// ImportKind / ExportKind share the same four-way external-kind tag.
type ImportKind byte

const (
	ExternFunc   ImportKind = 0x00
	ExternTable  ImportKind = 0x01
	ExternMem    ImportKind = 0x02
	ExternGlobal ImportKind = 0x03
)

// Import is a single entry of the import section.
type Import struct {
	Module string
	Name   string
	Desc   ImportDesc
}

// ImportDesc is the typed description of what an import provides.
type ImportDesc struct {
	Kind    ImportKind
	TypeIdx TypeIdx
	Table   TableType
	Mem     MemType
	Global  GlobalType
}

func readImport(s *Stream) (Import, error) {
	moduleName, err := readName(s)
	if err != nil {
		return Import{}, err
	}
	name, err := readName(s)
	if err != nil {
		return Import{}, err
	}
	kind, err := s.ConsumeIn(byte(ExternFunc), byte(ExternTable), byte(ExternMem), byte(ExternGlobal))
	if err != nil {
		return Import{}, err
	}
	desc := ImportDesc{Kind: ImportKind(kind)}
	switch desc.Kind {
	case ExternFunc:
		idx, err := leb128.ReadUint32(s)
		if err != nil {
			return Import{}, err
		}
		desc.TypeIdx = TypeIdx(idx)
	case ExternTable:
		t, err := readTableType(s)
		if err != nil {
			return Import{}, err
		}
		desc.Table = t
	case ExternMem:
		m, err := readMemType(s)
		if err != nil {
			return Import{}, err
		}
		desc.Mem = m
	case ExternGlobal:
		g, err := readGlobalType(s)
		if err != nil {
			return Import{}, err
		}
		desc.Global = g
	}
	return Import{Module: moduleName, Name: name, Desc: desc}, nil
}

// Global is a global variable declaration plus its initializer
// expression.
type Global struct {
	Type GlobalType
	Init []Instruction
}

func readGlobal(s *Stream) (Global, error) {
	gt, err := readGlobalType(s)
	if err != nil {
		return Global{}, err
	}
	init, _, err := decodeExpression(s)
	if err != nil {
		return Global{}, err
	}
	return Global{Type: gt, Init: init}, nil
}

// ExportDesc names, by kind and index, what an export resolves to.
type ExportDesc struct {
	Kind ImportKind
	Idx  uint32
}

// Export is a single entry of the export section.
type Export struct {
	Name string
	Desc ExportDesc
}

func readExport(s *Stream) (Export, error) {
	name, err := readName(s)
	if err != nil {
		return Export{}, err
	}
	kind, err := s.ConsumeIn(byte(ExternFunc), byte(ExternTable), byte(ExternMem), byte(ExternGlobal))
	if err != nil {
		return Export{}, err
	}
	idx, err := leb128.ReadUint32(s)
	if err != nil {
		return Export{}, err
	}
	return Export{Name: name, Desc: ExportDesc{Kind: ImportKind(kind), Idx: idx}}, nil
}

// Element is an element-segment: a table index, an offset
// initializer expression, and the function indices to populate it with.
type Element struct {
	TableIdx TableIdx
	Offset   []Instruction
	Init     []FuncIdx
}

func readElement(s *Stream) (Element, error) {
	idx, err := leb128.ReadUint32(s)
	if err != nil {
		return Element{}, err
	}
	offset, _, err := decodeExpression(s)
	if err != nil {
		return Element{}, err
	}
	funcs, err := readVec(s, func(s *Stream) (FuncIdx, error) {
		v, err := leb128.ReadUint32(s)
		return FuncIdx(v), err
	})
	if err != nil {
		return Element{}, err
	}
	return Element{TableIdx: TableIdx(idx), Offset: offset, Init: funcs}, nil
}

// Data is a data-segment: a memory index, an offset initializer
// expression, and the raw bytes to copy in.
type Data struct {
	MemIdx MemIdx
	Offset []Instruction
	Init   []byte
}

func readData(s *Stream) (Data, error) {
	idx, err := leb128.ReadUint32(s)
	if err != nil {
		return Data{}, err
	}
	offset, _, err := decodeExpression(s)
	if err != nil {
		return Data{}, err
	}
	n, err := leb128.ReadUint32(s)
	if err != nil {
		return Data{}, err
	}
	init, err := s.ConsumeBytes(n)
	if err != nil {
		return Data{}, err
	}
	return Data{MemIdx: MemIdx(idx), Offset: offset, Init: append([]byte(nil), init...)}, nil
}

// CustomSection passes a custom section's raw payload through
// untouched, keyed by its name. The teacher repository discards custom
// sections entirely (io.CopyN into ioutil.Discard); this keeps them,
// per §2 row G's "custom-section passthrough" requirement.
type CustomSection struct {
	Name string
	Data []byte
}

func readLocalsEntry(s *Stream) ([]ValueType, error) {
	count, err := leb128.ReadUint32(s)
	if err != nil {
		return nil, err
	}
	vt, err := readValueType(s)
	if err != nil {
		return nil, err
	}
	out := make([]ValueType, count)
	for i := range out {
		out[i] = vt
	}
	return out, nil
}

// readCodeEntry reads size:u32, then the (count,type) local-group
// vector expanded into a flat per-local-slot list, then the function
// body expression. The size-bounded sub-stream doubles as this code
// entry's own size check.
func readCodeEntry(s *Stream) (codeEntry, error) {
	size, err := leb128.ReadUint32(s)
	if err != nil {
		return codeEntry{}, err
	}
	body, err := s.Sub(size)
	if err != nil {
		return codeEntry{}, err
	}

	groups, err := readVec(body, readLocalsEntry)
	if err != nil {
		return codeEntry{}, err
	}
	var locals []ValueType
	for _, g := range groups {
		locals = append(locals, g...)
	}

	exprs, _, err := decodeExpression(body)
	if err != nil {
		return codeEntry{}, err
	}
	if body.Remaining() != 0 {
		return codeEntry{}, &DecodeError{
			Kind:     ErrInvalidSectionSize,
			Position: s.Position(),
			Declared: size,
			Actual:   size - uint32(body.Remaining()),
		}
	}
	return codeEntry{Locals: locals, Body: exprs}, nil
}
