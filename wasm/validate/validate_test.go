package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/r-james-dev/wasmpy/wasm"
	"github.com/r-james-dev/wasmpy/wasm/code"
)

func i32Const(v uint64) code.Expr {
	return code.Expr{{Opcode: code.OpI32Const, Immediate: v}, {Opcode: code.OpEnd}}
}

func u32(v uint32) *uint32 {
	return &v
}

// baseModule returns a module with one imported function, one local function,
// one table, one memory and one imported immutable global.
func baseModule() *wasm.Module {
	nullary := wasm.FunctionSig{}
	unary := wasm.FunctionSig{ParamTypes: []wasm.ValueType{wasm.ValueTypeI32}, ReturnTypes: []wasm.ValueType{wasm.ValueTypeI32}}
	return &wasm.Module{
		Types: []wasm.FunctionSig{nullary, unary},
		Imports: []wasm.ImportEntry{
			{ModuleName: "env", FieldName: "f", Type: wasm.FuncImport{Type: 0}},
			{ModuleName: "env", FieldName: "g", Type: wasm.GlobalVarImport{Type: wasm.GlobalVar{Type: wasm.ValueTypeI32}}},
		},
		Funcs: []wasm.Function{{
			TypeIndex: 1,
			Sig:       unary,
			Locals:    []wasm.ValueType{wasm.ValueTypeI64},
			Body:      code.Expr{{Opcode: code.OpLocalGet, Immediate: 0}, {Opcode: code.OpEnd}},
		}},
		Tables:   []wasm.Table{{ElementType: wasm.ElemTypeAnyFunc, Limits: wasm.ResizableLimits{Initial: 1}}},
		Memories: []wasm.Memory{{Limits: wasm.ResizableLimits{Flags: 1, Initial: 1, Maximum: 2}}},
		Globals: []wasm.GlobalEntry{{
			Type: wasm.GlobalVar{Type: wasm.ValueTypeI32, Mutable: true},
			Init: code.Expr{{Opcode: code.OpGlobalGet, Immediate: 0}, {Opcode: code.OpEnd}},
		}},
		Exports: []wasm.ExportEntry{
			{FieldStr: "f", Kind: wasm.ExternalFunction, Index: 1},
			{FieldStr: "t", Kind: wasm.ExternalTable, Index: 0},
			{FieldStr: "m", Kind: wasm.ExternalMemory, Index: 0},
			{FieldStr: "g", Kind: wasm.ExternalGlobal, Index: 1},
		},
		Start:    u32(0),
		Elements: []wasm.ElementSegment{{Offset: i32Const(0), Elems: []uint32{0, 1}}},
		Data:     []wasm.DataSegment{{Offset: i32Const(16), Data: []byte("data")}},
	}
}

func TestValidateModule(t *testing.T) {
	assert.NoError(t, ValidateModule(baseModule(), true))
	assert.NoError(t, ValidateModule(&wasm.Module{}, true))
}

func TestValidateModuleErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(m *wasm.Module)
		expected error
	}{
		{
			name:     "import type",
			mutate:   func(m *wasm.Module) { m.Imports[0].Type = wasm.FuncImport{Type: 5} },
			expected: wasm.ValidationError("unknown type"),
		},
		{
			name:     "export function",
			mutate:   func(m *wasm.Module) { m.Exports[0].Index = 2 },
			expected: wasm.ValidationError("unknown function"),
		},
		{
			name:     "export table",
			mutate:   func(m *wasm.Module) { m.Exports[1].Index = 1 },
			expected: wasm.ValidationError("unknown table"),
		},
		{
			name:     "export memory",
			mutate:   func(m *wasm.Module) { m.Exports[2].Index = 1 },
			expected: wasm.ValidationError("unknown memory"),
		},
		{
			name:     "export global",
			mutate:   func(m *wasm.Module) { m.Exports[3].Index = 2 },
			expected: wasm.ValidationError("unknown global"),
		},
		{
			name:     "duplicate export",
			mutate:   func(m *wasm.Module) { m.Exports[1].FieldStr = "f" },
			expected: wasm.ValidationError("duplicate export name"),
		},
		{
			name:     "start index",
			mutate:   func(m *wasm.Module) { m.Start = u32(7) },
			expected: wasm.ValidationError("unknown function"),
		},
		{
			name:     "start signature",
			mutate:   func(m *wasm.Module) { m.Start = u32(1) },
			expected: wasm.ValidationError("start function"),
		},
		{
			name:     "element table",
			mutate:   func(m *wasm.Module) { m.Elements[0].Index = 1 },
			expected: wasm.ValidationError("unknown table"),
		},
		{
			name:     "element function",
			mutate:   func(m *wasm.Module) { m.Elements[0].Elems = []uint32{3} },
			expected: wasm.ValidationError("unknown function"),
		},
		{
			name:     "data memory",
			mutate:   func(m *wasm.Module) { m.Data[0].Index = 1 },
			expected: wasm.ValidationError("unknown memory"),
		},
		{
			name: "data offset type",
			mutate: func(m *wasm.Module) {
				m.Data[0].Offset = code.Expr{{Opcode: code.OpI64Const}, {Opcode: code.OpEnd}}
			},
			expected: wasm.ValidationError("type mismatch"),
		},
		{
			name: "global initializer",
			mutate: func(m *wasm.Module) {
				m.Globals[0].Init = code.Expr{{Opcode: code.OpNop}, {Opcode: code.OpEnd}}
			},
			expected: wasm.ValidationError("constant expression required"),
		},
		{
			name: "global initializer refers to local global",
			mutate: func(m *wasm.Module) {
				m.Globals[0].Init = code.Expr{{Opcode: code.OpGlobalGet, Immediate: 1}, {Opcode: code.OpEnd}}
			},
			expected: wasm.ValidationError("unknown global"),
		},
		{
			name: "limits",
			mutate: func(m *wasm.Module) {
				m.Memories[0].Limits = wasm.ResizableLimits{Flags: 1, Initial: 3, Maximum: 2}
			},
			expected: wasm.ValidationError("size minimum must not be greater than maximum"),
		},
		{
			name: "memory size",
			mutate: func(m *wasm.Module) {
				m.Memories[0].Limits = wasm.ResizableLimits{Initial: 65537}
			},
			expected: wasm.ValidationError("memory size must be at most 65536 pages (4GiB)"),
		},
		{
			name: "multiple memories",
			mutate: func(m *wasm.Module) {
				m.Memories = append(m.Memories, wasm.Memory{})
			},
			expected: wasm.ValidationError("multiple memories"),
		},
		{
			name: "multiple tables",
			mutate: func(m *wasm.Module) {
				m.Imports = append(m.Imports, wasm.ImportEntry{Type: wasm.TableImport{}})
			},
			expected: wasm.ValidationError("multiple tables"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := baseModule()
			tt.mutate(m)
			assert.Equal(t, tt.expected, ValidateModule(m, true))
		})
	}
}

func TestValidateCode(t *testing.T) {
	tests := []struct {
		name     string
		body     code.Expr
		expected error
	}{
		{
			name: "valid",
			body: code.Expr{
				{Opcode: code.OpBlock, Immediate: code.BlockTypeEmpty},
				{Opcode: code.OpLocalGet, Immediate: 1},
				{Opcode: code.OpBrTable, Immediate: 1, Labels: []uint32{0}},
				{Opcode: code.OpEnd},
				{Opcode: code.OpCall, Immediate: 1},
				{Opcode: code.OpGlobalSet, Immediate: 1},
				{Opcode: code.OpI32Load, Immediate: 2 << 32},
				{Opcode: code.OpCallIndirect, Immediate: 0},
				{Opcode: code.OpEnd},
			},
		},
		{
			name:     "local",
			body:     code.Expr{{Opcode: code.OpLocalSet, Immediate: 2}, {Opcode: code.OpEnd}},
			expected: wasm.ValidationError("unknown local"),
		},
		{
			name:     "label",
			body:     code.Expr{{Opcode: code.OpBr, Immediate: 1}, {Opcode: code.OpEnd}},
			expected: wasm.ValidationError("unknown label"),
		},
		{
			name: "br_table label",
			body: code.Expr{
				{Opcode: code.OpBrTable, Immediate: 0, Labels: []uint32{1}},
				{Opcode: code.OpEnd},
			},
			expected: wasm.ValidationError("unknown label"),
		},
		{
			name:     "call",
			body:     code.Expr{{Opcode: code.OpCall, Immediate: 2}, {Opcode: code.OpEnd}},
			expected: wasm.ValidationError("unknown function"),
		},
		{
			name:     "call_indirect type",
			body:     code.Expr{{Opcode: code.OpCallIndirect, Immediate: 2}, {Opcode: code.OpEnd}},
			expected: wasm.ValidationError("unknown type"),
		},
		{
			name: "block type",
			body: code.Expr{
				{Opcode: code.OpLoop, Immediate: code.BlockType(9)},
				{Opcode: code.OpEnd},
				{Opcode: code.OpEnd},
			},
			expected: wasm.ValidationError("unknown type"),
		},
		{
			name:     "immutable global",
			body:     code.Expr{{Opcode: code.OpGlobalSet, Immediate: 0}, {Opcode: code.OpEnd}},
			expected: wasm.ValidationError("global is immutable"),
		},
		{
			name:     "global",
			body:     code.Expr{{Opcode: code.OpGlobalGet, Immediate: 2}, {Opcode: code.OpEnd}},
			expected: wasm.ValidationError("unknown global"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := baseModule()
			m.Funcs[0].Body = tt.body
			assert.Equal(t, tt.expected, ValidateModule(m, true))

			// Bodies are only inspected on request.
			assert.NoError(t, ValidateModule(m, false))
		})
	}
}

func TestValidateCodeWithoutMemory(t *testing.T) {
	m := baseModule()
	m.Memories = nil
	m.Exports = m.Exports[:2]
	m.Data = nil
	m.Funcs[0].Body = code.Expr{{Opcode: code.OpI64Store, Immediate: 3 << 32}, {Opcode: code.OpEnd}}
	assert.Equal(t, wasm.ValidationError("unknown memory"), ValidateModule(m, true))

	m.Funcs[0].Body = code.Expr{{Opcode: code.OpMemoryGrow}, {Opcode: code.OpEnd}}
	assert.Equal(t, wasm.ValidationError("unknown memory"), ValidateModule(m, true))
}
