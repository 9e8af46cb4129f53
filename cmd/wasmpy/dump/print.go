package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/r-james-dev/wasmpy/wasm"
	"github.com/r-james-dev/wasmpy/wasm/code"
)

type printer struct {
	w       io.Writer
	heading func(string) string
	disasm  bool
	err     error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string, count int) bool {
	if count == 0 {
		return false
	}
	if p.heading != nil {
		title = p.heading(title)
	}
	p.printf("\n%s (%d)\n", title, count)
	return true
}

// functionName returns the debug name of a function, falling back to the
// field name of imported functions.
func functionName(m *wasm.Module, index uint32) (string, bool) {
	if name, ok := m.Names.FunctionName(index); ok {
		return name, true
	}
	if index < m.Offsets.Func {
		n := uint32(0)
		for _, imp := range m.Imports {
			if imp.Type.Kind() != wasm.ExternalFunction {
				continue
			}
			if n == index {
				return imp.ModuleName + "." + imp.FieldName, true
			}
			n++
		}
	}
	return "", false
}

func exprString(e code.Expr) string {
	parts := make([]string, 0, len(e))
	for i := range e {
		if e[i].Opcode == code.OpEnd && i == len(e)-1 {
			break
		}
		parts = append(parts, e[i].String())
	}
	return "(" + strings.Join(parts, ") (") + ")"
}

func (p *printer) printModule(m *wasm.Module) error {
	if m.Names.ModuleName != nil {
		p.printf("module %q (version %d)\n", *m.Names.ModuleName, m.Version)
	} else {
		p.printf("module (version %d)\n", m.Version)
	}

	if p.section("Sections", len(m.Sections)) {
		for _, s := range m.Sections {
			p.printf("  %-8v start=0x%08x end=0x%08x size=%d\n", s.ID, s.Start, s.End, s.Size())
		}
	}

	if p.section("Types", len(m.Types)) {
		for i, t := range m.Types {
			p.printf("  %d: %v\n", i, t)
		}
	}

	if p.section("Imports", len(m.Imports)) {
		for i, imp := range m.Imports {
			p.printf("  %d: %s.%s %v\n", i, imp.ModuleName, imp.FieldName, imp.Type)
		}
	}

	if p.section("Functions", len(m.Funcs)) {
		for i := range m.Funcs {
			p.printFunction(m, uint32(i))
		}
	}

	if p.section("Tables", len(m.Tables)) {
		for i, t := range m.Tables {
			p.printf("  %d: %v\n", m.Offsets.Table+uint32(i), t)
		}
	}

	if p.section("Memories", len(m.Memories)) {
		for i, mem := range m.Memories {
			p.printf("  %d: %v\n", m.Offsets.Memory+uint32(i), mem)
		}
	}

	if p.section("Globals", len(m.Globals)) {
		for i, g := range m.Globals {
			p.printf("  %d: %v = %s\n", m.Offsets.Global+uint32(i), g.Type, exprString(g.Init))
		}
	}

	if p.section("Exports", len(m.Exports)) {
		for _, e := range m.Exports {
			imported := ""
			if e.Imported {
				imported = " (imported)"
			}
			p.printf("  %q %v %d%s\n", e.FieldStr, e.Kind, e.Index, imported)
		}
	}

	if m.Start != nil {
		p.section("Start", 1)
		p.printf("  %d\n", *m.Start)
	}

	if p.section("Elements", len(m.Elements)) {
		for i, e := range m.Elements {
			p.printf("  %d: table %d offset %s %v\n", i, e.Index, exprString(e.Offset), e.Elems)
		}
	}

	if p.section("Data", len(m.Data)) {
		for i, d := range m.Data {
			p.printf("  %d: memory %d offset %s %d bytes\n", i, d.Index, exprString(d.Offset), len(d.Data))
		}
	}

	if p.section("Custom sections", len(m.Customs)) {
		for _, c := range m.Customs {
			p.printf("  %q %d bytes\n", c.Name, len(c.Data))
		}
	}

	return p.err
}

func (p *printer) printFunction(m *wasm.Module, local uint32) {
	f := &m.Funcs[local]
	index := m.Offsets.Func + local

	label := ""
	if name, ok := functionName(m, index); ok {
		label = " $" + name
	}
	metrics := f.Body.Metrics()
	p.printf("  %d:%s (type %d) %v locals=%d instrs=%d\n", index, label, f.TypeIndex, f.Sig, len(f.Locals), metrics.InstructionCount)

	if !p.disasm {
		return
	}

	nparams := uint32(len(f.Sig.ParamTypes))
	for i, t := range f.Locals {
		localIndex := nparams + uint32(i)
		name := ""
		if n, ok := m.Names.LocalName(index, localIndex); ok {
			name = " $" + n
		}
		p.printf("      (local %d%s %v)\n", localIndex, name, t)
	}

	depth := 0
	for i := range f.Body {
		instr := &f.Body[i]
		switch instr.Opcode {
		case code.OpEnd, code.OpElse:
			depth--
		}
		if depth < 0 {
			depth = 0
		}
		p.printf("      %s%s\n", strings.Repeat("  ", depth), instr.String())
		switch instr.Opcode {
		case code.OpBlock, code.OpLoop, code.OpIf, code.OpElse:
			depth++
		}
	}
}
