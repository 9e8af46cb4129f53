// Package validate checks the cross references of a decoded module: every
// index must resolve within the index space of its kind. Instruction
// sequences are not type checked.
package validate

import (
	"github.com/r-james-dev/wasmpy/wasm"
	"github.com/r-james-dev/wasmpy/wasm/code"
)

// maxPages is the largest number of 64KiB pages a 32-bit memory can hold.
const maxPages = 65536

type validator struct {
	module       *wasm.Module
	validateCode bool

	importedFunctions []uint32
	importedGlobals   []wasm.GlobalVar

	tables   int
	memories int

	locals []wasm.ValueType
}

// ValidateModule checks the index references of m. If validateCode is true,
// the indices used by instructions in function bodies are checked as well.
func ValidateModule(m *wasm.Module, validateCode bool) error {
	v := validator{
		module:       m,
		validateCode: validateCode,
	}

	for _, i := range m.Imports {
		switch i := i.Type.(type) {
		case wasm.FuncImport:
			v.importedFunctions = append(v.importedFunctions, i.Type)
		case wasm.TableImport:
			v.tables++
		case wasm.MemoryImport:
			v.memories++
		case wasm.GlobalVarImport:
			v.importedGlobals = append(v.importedGlobals, i.Type)
		}
	}
	v.tables += len(m.Tables)
	v.memories += len(m.Memories)

	return v.validateModule()
}

func (v *validator) validateModule() error {
	if err := v.validateImports(); err != nil {
		return err
	}
	if err := v.validateFunctions(); err != nil {
		return err
	}
	if err := v.validateTables(); err != nil {
		return err
	}
	if err := v.validateMemories(); err != nil {
		return err
	}
	if err := v.validateGlobals(); err != nil {
		return err
	}
	if err := v.validateExports(); err != nil {
		return err
	}
	if err := v.validateStart(); err != nil {
		return err
	}
	if err := v.validateElements(); err != nil {
		return err
	}
	return v.validateData()
}

func (v *validator) getType(typeidx uint32) (wasm.FunctionSig, bool) {
	if typeidx >= uint32(len(v.module.Types)) {
		return wasm.FunctionSig{}, false
	}
	return v.module.Types[int(typeidx)], true
}

func (v *validator) getFunctionSignature(funcidx uint32) (wasm.FunctionSig, bool) {
	if funcidx < uint32(len(v.importedFunctions)) {
		return v.getType(v.importedFunctions[int(funcidx)])
	}
	funcidx -= uint32(len(v.importedFunctions))
	if funcidx >= uint32(len(v.module.Funcs)) {
		return wasm.FunctionSig{}, false
	}
	return v.module.Funcs[int(funcidx)].Sig, true
}

func (v *validator) getGlobalType(globalidx uint32) (wasm.GlobalVar, bool) {
	if globalidx < uint32(len(v.importedGlobals)) {
		return v.importedGlobals[int(globalidx)], true
	}
	globalidx -= uint32(len(v.importedGlobals))
	if globalidx >= uint32(len(v.module.Globals)) {
		return wasm.GlobalVar{}, false
	}
	return v.module.Globals[int(globalidx)].Type, true
}

func (v *validator) validateImports() error {
	for _, i := range v.module.Imports {
		switch i := i.Type.(type) {
		case wasm.FuncImport:
			if _, ok := v.getType(i.Type); !ok {
				return wasm.ValidationError("unknown type")
			}
		case wasm.TableImport:
			if err := v.validateLimits(i.Type.Limits); err != nil {
				return err
			}
		case wasm.MemoryImport:
			if err := v.validateMemoryLimits(i.Type.Limits); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *validator) validateFunctions() error {
	if !v.validateCode {
		return nil
	}
	for _, f := range v.module.Funcs {
		v.locals = append(v.locals[:0], f.Sig.ParamTypes...)
		v.locals = append(v.locals, f.Locals...)
		if err := v.validateBody(f.Body); err != nil {
			return err
		}
	}
	return nil
}

// validateBody checks the immediates of every instruction in body.
func (v *validator) validateBody(body code.Expr) error {
	depth := 1
	for i := range body {
		instr := &body[i]
		switch instr.Opcode {
		case code.OpBlock, code.OpLoop, code.OpIf:
			if typeidx, ok := instr.BlockTypeIndex(); ok {
				if _, ok := v.getType(typeidx); !ok {
					return wasm.ValidationError("unknown type")
				}
			}
			depth++
		case code.OpEnd:
			depth--
		case code.OpBr, code.OpBrIf:
			if instr.Labelidx() >= uint32(depth) {
				return wasm.ValidationError("unknown label")
			}
		case code.OpBrTable:
			for _, l := range instr.Labels {
				if l >= uint32(depth) {
					return wasm.ValidationError("unknown label")
				}
			}
			if instr.Default() >= uint32(depth) {
				return wasm.ValidationError("unknown label")
			}
		case code.OpCall:
			if _, ok := v.getFunctionSignature(instr.Funcidx()); !ok {
				return wasm.ValidationError("unknown function")
			}
		case code.OpCallIndirect:
			if v.tables == 0 {
				return wasm.ValidationError("unknown table")
			}
			if _, ok := v.getType(instr.Typeidx()); !ok {
				return wasm.ValidationError("unknown type")
			}
		case code.OpLocalGet, code.OpLocalSet, code.OpLocalTee:
			if instr.Localidx() >= uint32(len(v.locals)) {
				return wasm.ValidationError("unknown local")
			}
		case code.OpGlobalGet:
			if _, ok := v.getGlobalType(instr.Globalidx()); !ok {
				return wasm.ValidationError("unknown global")
			}
		case code.OpGlobalSet:
			g, ok := v.getGlobalType(instr.Globalidx())
			if !ok {
				return wasm.ValidationError("unknown global")
			}
			if !g.Mutable {
				return wasm.ValidationError("global is immutable")
			}
		case code.OpMemorySize, code.OpMemoryGrow:
			if v.memories == 0 {
				return wasm.ValidationError("unknown memory")
			}
		default:
			if instr.IsMemoryAccess() && v.memories == 0 {
				return wasm.ValidationError("unknown memory")
			}
		}
	}
	return nil
}

func (v *validator) validateLimits(limits wasm.ResizableLimits) error {
	if limits.HasMaximum() && limits.Initial > limits.Maximum {
		return wasm.ValidationError("size minimum must not be greater than maximum")
	}
	return nil
}

func (v *validator) validateMemoryLimits(limits wasm.ResizableLimits) error {
	if err := v.validateLimits(limits); err != nil {
		return err
	}
	if limits.Initial > maxPages || limits.HasMaximum() && limits.Maximum > maxPages {
		return wasm.ValidationError("memory size must be at most 65536 pages (4GiB)")
	}
	return nil
}

func (v *validator) validateTables() error {
	if v.tables > 1 {
		return wasm.ValidationError("multiple tables")
	}
	for _, t := range v.module.Tables {
		if err := v.validateLimits(t.Limits); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) validateMemories() error {
	if v.memories > 1 {
		return wasm.ValidationError("multiple memories")
	}
	for _, m := range v.module.Memories {
		if err := v.validateMemoryLimits(m.Limits); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) validateGlobals() error {
	for _, g := range v.module.Globals {
		// Initializers may only refer to imported globals.
		if err := v.validateInitExpr(g.Init, g.Type.Type, uint32(len(v.importedGlobals))); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) validateExports() error {
	names := map[string]bool{}
	for _, e := range v.module.Exports {
		if names[e.FieldStr] {
			return wasm.ValidationError("duplicate export name")
		}
		names[e.FieldStr] = true

		switch e.Kind {
		case wasm.ExternalFunction:
			if _, ok := v.getFunctionSignature(e.Index); !ok {
				return wasm.ValidationError("unknown function")
			}
		case wasm.ExternalTable:
			if e.Index >= uint32(v.tables) {
				return wasm.ValidationError("unknown table")
			}
		case wasm.ExternalMemory:
			if e.Index >= uint32(v.memories) {
				return wasm.ValidationError("unknown memory")
			}
		case wasm.ExternalGlobal:
			if _, ok := v.getGlobalType(e.Index); !ok {
				return wasm.ValidationError("unknown global")
			}
		}
	}
	return nil
}

func (v *validator) validateStart() error {
	if v.module.Start == nil {
		return nil
	}
	sig, ok := v.getFunctionSignature(*v.module.Start)
	if !ok {
		return wasm.ValidationError("unknown function")
	}
	if len(sig.ParamTypes) != 0 || len(sig.ReturnTypes) != 0 {
		return wasm.ValidationError("start function")
	}
	return nil
}

func (v *validator) validateElements() error {
	for _, elem := range v.module.Elements {
		if elem.Index >= uint32(v.tables) {
			return wasm.ValidationError("unknown table")
		}
		if err := v.validateInitExpr(elem.Offset, wasm.ValueTypeI32, uint32(len(v.importedGlobals))); err != nil {
			return err
		}
		for _, funcidx := range elem.Elems {
			if _, ok := v.getFunctionSignature(funcidx); !ok {
				return wasm.ValidationError("unknown function")
			}
		}
	}
	return nil
}

func (v *validator) validateData() error {
	for _, data := range v.module.Data {
		if data.Index >= uint32(v.memories) {
			return wasm.ValidationError("unknown memory")
		}
		if err := v.validateInitExpr(data.Offset, wasm.ValueTypeI32, uint32(len(v.importedGlobals))); err != nil {
			return err
		}
	}
	return nil
}

// validateInitExpr checks that expr is a single constant instruction of the
// expected type followed by end. Only the first maxGlobal globals are visible.
func (v *validator) validateInitExpr(expr code.Expr, expected wasm.ValueType, maxGlobal uint32) error {
	if len(expr) != 2 || expr[1].Opcode != code.OpEnd {
		return wasm.ValidationError("constant expression required")
	}

	var actual wasm.ValueType
	switch instr := &expr[0]; instr.Opcode {
	case code.OpI32Const:
		actual = wasm.ValueTypeI32
	case code.OpI64Const:
		actual = wasm.ValueTypeI64
	case code.OpF32Const:
		actual = wasm.ValueTypeF32
	case code.OpF64Const:
		actual = wasm.ValueTypeF64
	case code.OpGlobalGet:
		if instr.Globalidx() >= maxGlobal {
			return wasm.ValidationError("unknown global")
		}
		g := v.importedGlobals[int(instr.Globalidx())]
		if g.Mutable {
			return wasm.ValidationError("constant expression required")
		}
		actual = g.Type
	default:
		return wasm.ValidationError("constant expression required")
	}
	if actual != expected {
		return wasm.ValidationError("type mismatch")
	}
	return nil
}
