package store

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/charlieprice/wasmcore/wasm"
)

// AllocError reports a failure to allocate a module into a store,
// following the teacher's single-error-type-per-package idiom
// (vm/error.go's ExecError).
type AllocError struct {
	message string
}

func (e *AllocError) Error() string { return e.message }

// Allocate assigns fresh store addresses for module's own functions,
// tables, memories, and globals, prepends the host-supplied externals
// to each kind's address list (§3: "imports... come before
// module-defined K"), and resolves the module's exports against the
// combined lists. Allocation takes the store's lock for its duration:
// per §5, at most one allocator operation on a given store runs at a
// time. A failure partway through is not transactional — addresses
// already appended to the store remain there, per §5's "partial
// allocator state is visible in the store" rule — so callers must
// treat a failed Allocate as fatal for the whole store, not retry it.
func Allocate(st *Store, m *wasm.Module, externs []ExternalValue) (*ModuleInstance, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	inst := &ModuleInstance{
		Types: append([]wasm.FuncType(nil), m.Types...),
	}

	for _, ext := range externs {
		switch ext.Kind {
		case wasm.ExternFunc:
			inst.FuncAddrs = append(inst.FuncAddrs, ext.Func)
		case wasm.ExternTable:
			inst.TableAddrs = append(inst.TableAddrs, ext.Table)
		case wasm.ExternMem:
			inst.MemAddrs = append(inst.MemAddrs, ext.Mem)
		case wasm.ExternGlobal:
			inst.GlobalAddrs = append(inst.GlobalAddrs, ext.Global)
		}
	}

	for i := range m.Funcs {
		fn := m.Funcs[i]
		if int(fn.TypeIdx) >= len(m.Types) {
			return nil, &AllocError{message: fmt.Sprintf("store: function %d references out-of-range type %d", i, fn.TypeIdx)}
		}
		addr := FuncAddr(len(st.Funcs))
		st.Funcs = append(st.Funcs, FunctionInstance{
			Type:   m.Types[fn.TypeIdx],
			Code:   fn,
			Module: inst,
		})
		inst.FuncAddrs = append(inst.FuncAddrs, addr)
	}

	for _, t := range m.Tables {
		addr := TableAddr(len(st.Tables))
		st.Tables = append(st.Tables, TableInstance{
			Elem: make([]FuncAddr, t.Limits.Min),
			Max:  t.Limits.Max,
		})
		inst.TableAddrs = append(inst.TableAddrs, addr)
	}

	for _, mt := range m.Mems {
		addr := MemAddr(len(st.Mems))
		st.Mems = append(st.Mems, MemoryInstance{
			Data: make([]byte, uint64(mt.Limits.Min)*PageSize),
			Max:  mt.Limits.Max,
		})
		inst.MemAddrs = append(inst.MemAddrs, addr)
	}

	for _, g := range m.Globals {
		addr := GlobalAddr(len(st.Globals))
		st.Globals = append(st.Globals, GlobalInstance{Type: g.Type})
		inst.GlobalAddrs = append(inst.GlobalAddrs, addr)
	}

	for _, exp := range m.Exports {
		export, err := resolveExport(inst, exp)
		if err != nil {
			return nil, err
		}
		inst.Exports = append(inst.Exports, export)
	}

	logrus.WithFields(logrus.Fields{
		"funcs":   len(inst.FuncAddrs),
		"tables":  len(inst.TableAddrs),
		"mems":    len(inst.MemAddrs),
		"globals": len(inst.GlobalAddrs),
		"exports": len(inst.Exports),
	}).Debug("module allocated into store")

	return inst, nil
}

func resolveExport(inst *ModuleInstance, exp wasm.Export) (ExportInstance, error) {
	out := ExportInstance{Name: exp.Name, Kind: exp.Desc.Kind}
	idx := int(exp.Desc.Idx)
	switch exp.Desc.Kind {
	case wasm.ExternFunc:
		if idx >= len(inst.FuncAddrs) {
			return out, &AllocError{message: fmt.Sprintf("store: export %q references out-of-range func %d", exp.Name, idx)}
		}
		out.Func = inst.FuncAddrs[idx]
	case wasm.ExternTable:
		if idx >= len(inst.TableAddrs) {
			return out, &AllocError{message: fmt.Sprintf("store: export %q references out-of-range table %d", exp.Name, idx)}
		}
		out.Table = inst.TableAddrs[idx]
	case wasm.ExternMem:
		if idx >= len(inst.MemAddrs) {
			return out, &AllocError{message: fmt.Sprintf("store: export %q references out-of-range memory %d", exp.Name, idx)}
		}
		out.Mem = inst.MemAddrs[idx]
	case wasm.ExternGlobal:
		if idx >= len(inst.GlobalAddrs) {
			return out, &AllocError{message: fmt.Sprintf("store: export %q references out-of-range global %d", exp.Name, idx)}
		}
		out.Global = inst.GlobalAddrs[idx]
	}
	return out, nil
}

// InitializeElements commits an element segment's function addresses
// into the addressed table at offset, once the execution engine has
// evaluated the segment's offset expression against a frame. It fails
// with an AllocError if the table address is unknown or the segment
// does not fit inside the table. Allocate never calls it, so
// allocation itself leaves table and memory contents untouched.
func InitializeElements(st *Store, table TableAddr, offset uint32, funcs []FuncAddr) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if int(table) >= len(st.Tables) {
		return &AllocError{message: fmt.Sprintf("store: no table at address %d", table)}
	}
	t := &st.Tables[table]
	end := uint64(offset) + uint64(len(funcs))
	if end > uint64(len(t.Elem)) {
		return &AllocError{message: fmt.Sprintf("store: element initializer out of bounds: offset %d + %d > table size %d", offset, len(funcs), len(t.Elem))}
	}
	copy(t.Elem[offset:], funcs)
	return nil
}

// InitializeData commits a data segment's bytes into the addressed
// memory, analogous to InitializeElements.
func InitializeData(st *Store, mem MemAddr, offset uint32, data []byte) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if int(mem) >= len(st.Mems) {
		return &AllocError{message: fmt.Sprintf("store: no memory at address %d", mem)}
	}
	m := &st.Mems[mem]
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(m.Data)) {
		return &AllocError{message: fmt.Sprintf("store: data initializer out of bounds: offset %d + %d > memory size %d", offset, len(data), len(m.Data))}
	}
	copy(m.Data[offset:], data)
	return nil
}
