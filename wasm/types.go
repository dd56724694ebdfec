package wasm

// ValueType is one of the four MVP value types.
type ValueType int8

const (
	// ValueTypeI32 represents valtype i32.
	ValueTypeI32 ValueType = 0x7f
	// ValueTypeI64 represents valtype i64.
	ValueTypeI64 ValueType = 0x7e
	// ValueTypeF32 represents valtype f32.
	ValueTypeF32 ValueType = 0x7d
	// ValueTypeF64 represents valtype f64.
	ValueTypeF64 ValueType = 0x7c
)

func (v ValueType) String() string {
	switch v {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	default:
		return "invalid"
	}
}

// blockTypeEmpty is the result-type tag for an empty result (0x40).
const blockTypeEmpty byte = 0x40

// funcTypeForm is the tag byte prefixing every function type (0x60).
const funcTypeForm byte = 0x60

// elemTypeFuncRef is the only table element type in the MVP (0x70).
const elemTypeFuncRef byte = 0x70

// Mut is a global's mutability flag.
type Mut uint8

const (
	// MutConst marks an immutable global.
	MutConst Mut = 0x00
	// MutVar marks a mutable global.
	MutVar Mut = 0x01
)

// Typed index wrappers: one distinct type per index space so a
// function index can never type-check where a memory index is
// expected, per the teacher's phantom-tagged-index design note
// carried over from the original Swift source.
type (
	TypeIdx   uint32
	FuncIdx   uint32
	TableIdx  uint32
	MemIdx    uint32
	GlobalIdx uint32
	LocalIdx  uint32
	LabelIdx  uint32
)

// ResultType is zero or one value type (MVP: single-value results only).
type ResultType []ValueType

// FuncType is a function signature: parameters and results.
type FuncType struct {
	Params  []ValueType
	Results ResultType
}

// Limits bounds the size of a table or memory.
type Limits struct {
	Min uint32
	Max *uint32
}

// HasMax reports whether the limits declare an upper bound.
func (l Limits) HasMax() bool {
	return l.Max != nil
}

// TableType describes a table: always funcref-typed in the MVP.
type TableType struct {
	Limits Limits
}

// MemType describes a memory purely by its page limits.
type MemType struct {
	Limits Limits
}

// GlobalType describes a global variable's value type and mutability.
type GlobalType struct {
	ValType ValueType
	Mut     Mut
}
