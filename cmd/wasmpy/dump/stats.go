package dump

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/willf/bitset"

	"github.com/r-james-dev/wasmpy/wasm"
	"github.com/r-james-dev/wasmpy/wasm/code"
)

type statsRow struct {
	Function         string `csv:"function"`
	Funcidx          uint32 `csv:"funcidx"`
	In               int    `csv:"in"`
	Out              int    `csv:"out"`
	LocalCount       int    `csv:"local count"`
	LocalsTouched    uint   `csv:"locals touched"`
	Callees          uint   `csv:"callees"`
	MaxNesting       int    `csv:"max nesting"`
	LabelCount       int    `csv:"label count"`
	InstructionCount int    `csv:"instruction count"`
	HasLoops         bool   `csv:"has loops"`
	Unreachable      int    `csv:"unreachable"`
	Block            int    `csv:"block"`
	Loop             int    `csv:"loop"`
	If               int    `csv:"if"`
	Br               int    `csv:"br"`
	BrIf             int    `csv:"br_if"`
	BrTable          int    `csv:"br_table"`
	Return           int    `csv:"return"`
	Call             int    `csv:"call"`
	CallIndirect     int    `csv:"call_indirect"`
	LocalGet         int    `csv:"local.get"`
	LocalSet         int    `csv:"local.set"`
	LocalTee         int    `csv:"local.tee"`
	GlobalGet        int    `csv:"global.get"`
	GlobalSet        int    `csv:"global.set"`
	Load             int    `csv:"load"`
	LoadSmall        int    `csv:"load small offset"`
	Store            int    `csv:"store"`
	StoreSmall       int    `csv:"store small offset"`
	MemorySize       int    `csv:"memory.size"`
	MemoryGrow       int    `csv:"memory.grow"`
	I32Const         int    `csv:"i32.const"`
	I64Const         int    `csv:"i64.const"`
	F32Const         int    `csv:"f32.const"`
	F64Const         int    `csv:"f64.const"`
	Compare          int    `csv:"compare"`
	Arith            int    `csv:"arith"`
	Convert          int    `csv:"convert"`
}

// functionStats computes the statistics row of the local function at the
// given position in m.Funcs.
func functionStats(m *wasm.Module, local int) statsRow {
	f := &m.Funcs[local]
	index := m.Offsets.Func + uint32(local)
	name, _ := functionName(m, index)
	metrics := f.Body.Metrics()

	nlocals := len(f.Sig.ParamTypes) + len(f.Locals)
	touched := bitset.New(uint(nlocals))
	callees := bitset.New(uint(m.Offsets.Func) + uint(len(m.Funcs)))

	r := statsRow{
		Function:         name,
		Funcidx:          index,
		In:               len(f.Sig.ParamTypes),
		Out:              len(f.Sig.ReturnTypes),
		LocalCount:       len(f.Locals),
		MaxNesting:       metrics.MaxNesting,
		LabelCount:       metrics.LabelCount,
		InstructionCount: metrics.InstructionCount,
		HasLoops:         metrics.HasLoops,
	}
	for i := range f.Body {
		instr := &f.Body[i]
		switch op := instr.Opcode; {
		case op == code.OpUnreachable:
			r.Unreachable++
		case op == code.OpBlock:
			r.Block++
		case op == code.OpLoop:
			r.Loop++
		case op == code.OpIf:
			r.If++
		case op == code.OpBr:
			r.Br++
		case op == code.OpBrIf:
			r.BrIf++
		case op == code.OpBrTable:
			r.BrTable++
		case op == code.OpReturn:
			r.Return++
		case op == code.OpCall:
			setBit(callees, instr.Funcidx())
			r.Call++
		case op == code.OpCallIndirect:
			r.CallIndirect++
		case op == code.OpLocalGet:
			setBit(touched, instr.Localidx())
			r.LocalGet++
		case op == code.OpLocalSet:
			setBit(touched, instr.Localidx())
			r.LocalSet++
		case op == code.OpLocalTee:
			setBit(touched, instr.Localidx())
			r.LocalTee++
		case op == code.OpGlobalGet:
			r.GlobalGet++
		case op == code.OpGlobalSet:
			r.GlobalSet++
		case op >= code.OpI32Load && op <= code.OpI64Load32U:
			if instr.Offset() < 256 {
				r.LoadSmall++
			}
			r.Load++
		case op >= code.OpI32Store && op <= code.OpI64Store32:
			if instr.Offset() < 256 {
				r.StoreSmall++
			}
			r.Store++
		case op == code.OpMemorySize:
			r.MemorySize++
		case op == code.OpMemoryGrow:
			r.MemoryGrow++
		case op == code.OpI32Const:
			r.I32Const++
		case op == code.OpI64Const:
			r.I64Const++
		case op == code.OpF32Const:
			r.F32Const++
		case op == code.OpF64Const:
			r.F64Const++
		case op >= code.OpI32Eqz && op <= code.OpF64Ge:
			r.Compare++
		case op >= code.OpI32Clz && op <= code.OpF64Copysign:
			r.Arith++
		case op >= code.OpI32WrapI64 && op <= code.OpI64Extend32S, op == code.OpPrefix:
			r.Convert++
		}
	}
	r.LocalsTouched = touched.Count()
	r.Callees = callees.Count()
	return r
}

// setBit marks i in b, ignoring indices outside of b.
func setBit(b *bitset.BitSet, i uint32) {
	if uint(i) < b.Len() {
		b.Set(uint(i))
	}
}

func dumpStats(w io.Writer, m *wasm.Module) error {
	csvWriter := csv.NewWriter(w)
	encoder := csvutil.NewEncoder(csvWriter)

	for i := range m.Funcs {
		r := functionStats(m, i)
		if err := encoder.Encode(&r); err != nil {
			return err
		}
	}
	if len(m.Funcs) == 0 {
		if err := encoder.EncodeHeader(statsRow{}); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
