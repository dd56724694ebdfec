// Package store implements the allocation protocol by which a decoded
// wasm.Module, together with host-supplied external values, becomes a
// runtime ModuleInstance living inside a Store. This generalizes the
// teacher repository's vm.NewVM, which allocated one VM's private
// stack/frame/global slices for exactly one module; here a Store is
// shared, its address vectors grow monotonically across any number of
// modules, and addresses never move or get reused, per §3/§4.I.
package store

import (
	"sync"

	"github.com/charlieprice/wasmcore/wasm"
)

// PageSize is the fixed linear-memory page size: 64 KiB.
const PageSize = 64 * 1024

// Addr family: one distinct type per store-vector kind, so a function
// address cannot be used where a memory address is expected. Mirrors
// the typed-index design used for wasm.FuncIdx and friends.
type (
	FuncAddr   uint32
	TableAddr  uint32
	MemAddr    uint32
	GlobalAddr uint32
)

// FunctionInstance is the runtime incarnation of a decoded function:
// its signature, its body, and a back-reference to the module
// instance it belongs to (needed to resolve the local/global index
// spaces during execution).
type FunctionInstance struct {
	Type   wasm.FuncType
	Code   wasm.Function
	Module *ModuleInstance

	// Host, when non-nil, makes this a host function imported from
	// outside the store rather than one decoded from a Module.
	Host func(args []uint64) (uint64, error)
}

// IsHost reports whether this instance wraps a host function rather
// than wasm bytecode.
func (f *FunctionInstance) IsHost() bool {
	return f.Host != nil
}

// TableInstance is a vector of funcref-typed elements. Allocate sizes
// it to the table's minimum with zero-valued entries; InitializeElements
// writes function addresses into it.
type TableInstance struct {
	Elem []FuncAddr
	Max  *uint32
}

// MemoryInstance is linear memory backing storage, sized in whole
// pages at allocation time.
type MemoryInstance struct {
	Data []byte
	Max  *uint32
}

// Pages reports the current size of the memory in 64 KiB pages.
func (m *MemoryInstance) Pages() uint32 {
	return uint32(len(m.Data) / PageSize)
}

// GlobalInstance records a global's type. Per §4.I point 5, the
// allocator does not evaluate the global's initializer expression —
// that belongs to the downstream execution engine, which has the
// frame context (and other globals) needed to evaluate init_expr. The
// value is left as an explicit open field for that engine to fill in.
type GlobalInstance struct {
	Type  wasm.GlobalType
	Value uint64
}

// ExternalValue is a host- or linker-supplied address satisfying one
// of a module's imports, typed by kind.
type ExternalValue struct {
	Kind   wasm.ImportKind
	Func   FuncAddr
	Table  TableAddr
	Mem    MemAddr
	Global GlobalAddr
}

// ExportInstance is a resolved export: a name paired with the kind and
// address the module instance's address lists resolve it to.
type ExportInstance struct {
	Name   string
	Kind   wasm.ImportKind
	Func   FuncAddr
	Table  TableAddr
	Mem    MemAddr
	Global GlobalAddr
}

// ModuleInstance is the runtime incarnation of a decoded module: its
// types, plus index-ordered address lists for each kind (imports
// first, then module-defined items, per §3), plus resolved exports.
// It holds addresses only — non-owning handles into its Store — so it
// stays cheap to copy and share.
type ModuleInstance struct {
	Types       []wasm.FuncType
	FuncAddrs   []FuncAddr
	TableAddrs  []TableAddr
	MemAddrs    []MemAddr
	GlobalAddrs []GlobalAddr
	Exports     []ExportInstance
}

// Store owns every instance ever allocated through it. Its vectors
// only ever grow; addresses handed out are stable for the store's
// entire lifetime.
type Store struct {
	mu sync.Mutex

	Funcs   []FunctionInstance
	Tables  []TableInstance
	Mems    []MemoryInstance
	Globals []GlobalInstance
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}
