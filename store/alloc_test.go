package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlieprice/wasmcore/wasm"
)

func oneFuncType() []wasm.FuncType {
	return []wasm.FuncType{{
		Params:  []wasm.ValueType{wasm.ValueTypeI32},
		Results: wasm.ResultType{wasm.ValueTypeI32},
	}}
}

func TestAllocateOwnFunctionsTablesMemsGlobals(t *testing.T) {
	m := &wasm.Module{
		Types: oneFuncType(),
		Funcs: []wasm.Function{
			{TypeIdx: 0},
			{TypeIdx: 0},
		},
		Tables: []wasm.TableType{{Limits: wasm.Limits{Min: 3}}},
		Mems:   []wasm.MemType{{Limits: wasm.Limits{Min: 2}}},
		Globals: []wasm.Global{
			{Type: wasm.GlobalType{ValType: wasm.ValueTypeI32, Mut: wasm.MutConst}},
		},
		Exports: []wasm.Export{
			{Name: "fib", Desc: wasm.ExportDesc{Kind: wasm.ExternFunc, Idx: 0}},
			{Name: "memory", Desc: wasm.ExportDesc{Kind: wasm.ExternMem, Idx: 0}},
		},
	}

	st := NewStore()
	inst, err := Allocate(st, m, nil)
	require.NoError(t, err)

	require.Len(t, inst.FuncAddrs, 2)
	require.Len(t, inst.TableAddrs, 1)
	require.Len(t, inst.MemAddrs, 1)
	require.Len(t, inst.GlobalAddrs, 1)

	assert.Len(t, st.Tables[inst.TableAddrs[0]].Elem, 3)
	assert.Len(t, st.Mems[inst.MemAddrs[0]].Data, 2*PageSize)
	assert.EqualValues(t, 2, st.Mems[inst.MemAddrs[0]].Pages())

	require.Len(t, inst.Exports, 2)
	assert.Equal(t, "fib", inst.Exports[0].Name)
	assert.Equal(t, inst.FuncAddrs[0], inst.Exports[0].Func)
	assert.Equal(t, "memory", inst.Exports[1].Name)
	assert.Equal(t, inst.MemAddrs[0], inst.Exports[1].Mem)
}

func TestAllocatePrependsExternalAddresses(t *testing.T) {
	st := NewStore()

	// pre-populate the store with a host function at address 0 so the
	// module-owned function lands at a different address.
	st.Funcs = append(st.Funcs, FunctionInstance{Host: func([]uint64) (uint64, error) { return 0, nil }})
	hostAddr := FuncAddr(0)

	m := &wasm.Module{
		Types: oneFuncType(),
		Funcs: []wasm.Function{{TypeIdx: 0}},
	}
	externs := []ExternalValue{{Kind: wasm.ExternFunc, Func: hostAddr}}

	inst, err := Allocate(st, m, externs)
	require.NoError(t, err)

	require.Len(t, inst.FuncAddrs, 2)
	assert.Equal(t, hostAddr, inst.FuncAddrs[0])
	assert.NotEqual(t, hostAddr, inst.FuncAddrs[1])
}

func TestAllocateRejectsOutOfRangeExport(t *testing.T) {
	m := &wasm.Module{
		Types: oneFuncType(),
		Funcs: []wasm.Function{{TypeIdx: 0}},
		Exports: []wasm.Export{
			{Name: "missing", Desc: wasm.ExportDesc{Kind: wasm.ExternFunc, Idx: 5}},
		},
	}
	_, err := Allocate(NewStore(), m, nil)
	require.Error(t, err)
}

func TestAllocateRejectsOutOfRangeTypeIdx(t *testing.T) {
	m := &wasm.Module{
		Types: oneFuncType(),
		Funcs: []wasm.Function{{TypeIdx: 9}},
	}
	_, err := Allocate(NewStore(), m, nil)
	require.Error(t, err)
}

func TestInitializeElementsAndData(t *testing.T) {
	m := &wasm.Module{
		Types:  oneFuncType(),
		Funcs:  []wasm.Function{{TypeIdx: 0}},
		Tables: []wasm.TableType{{Limits: wasm.Limits{Min: 4}}},
		Mems:   []wasm.MemType{{Limits: wasm.Limits{Min: 1}}},
	}
	st := NewStore()
	inst, err := Allocate(st, m, nil)
	require.NoError(t, err)

	require.NoError(t, InitializeElements(st, inst.TableAddrs[0], 1, []FuncAddr{inst.FuncAddrs[0]}))
	assert.Equal(t, inst.FuncAddrs[0], st.Tables[inst.TableAddrs[0]].Elem[1])

	require.NoError(t, InitializeData(st, inst.MemAddrs[0], 4, []byte{0x10, 0x00, 0x01, 0x00}))
	assert.Equal(t, []byte{0x10, 0x00, 0x01, 0x00}, st.Mems[inst.MemAddrs[0]].Data[4:8])

	err = InitializeData(st, inst.MemAddrs[0], uint32(PageSize), []byte{0x01})
	require.Error(t, err)
}
