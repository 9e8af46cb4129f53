package code

import (
	"fmt"
	"math"
	"strings"
)

// Instruction is a single decoded instruction. Immediate holds the operand
// of every instruction with at most one scalar operand; br_table keeps its
// targets in Labels and its default label in Immediate, and memory
// instructions pack their memarg (see Memarg).
type Instruction struct {
	Opcode    byte     `json:"opcode"`
	Immediate uint64   `json:"immediate"`
	Labels    []uint32 `json:"labels,omitempty"`
}

func (i *Instruction) Default() uint32 {
	return uint32(i.Immediate)
}

func (i *Instruction) Labelidx() uint32 {
	return uint32(i.Immediate)
}

func (i *Instruction) Funcidx() uint32 {
	return uint32(i.Immediate)
}

func (i *Instruction) Localidx() uint32 {
	return uint32(i.Immediate)
}

func (i *Instruction) Globalidx() uint32 {
	return uint32(i.Immediate)
}

func (i *Instruction) Typeidx() uint32 {
	return uint32(i.Immediate)
}

// Memarg returns the static offset and alignment exponent of a load or store.
func (i *Instruction) Memarg() (offset uint32, align uint32) {
	return uint32(i.Immediate), uint32(i.Immediate >> 32)
}

func (i *Instruction) Offset() uint32 {
	return uint32(i.Immediate)
}

func (i *Instruction) I32() int32 {
	return int32(i.Immediate)
}

func (i *Instruction) I64() int64 {
	return int64(i.Immediate)
}

func (i *Instruction) F32() float32 {
	return math.Float32frombits(uint32(i.Immediate))
}

func (i *Instruction) F64() float64 {
	return math.Float64frombits(i.Immediate)
}

// IsBlockStart reports whether the instruction opens a structured block.
func (i *Instruction) IsBlockStart() bool {
	return i.Opcode == OpBlock || i.Opcode == OpLoop || i.Opcode == OpIf
}

// IsMemoryAccess reports whether the instruction is a load or a store.
func (i *Instruction) IsMemoryAccess() bool {
	return opcodes[i.Opcode].imm == immMemarg
}

// IsStore reports whether the instruction is a store.
func (i *Instruction) IsStore() bool {
	return i.Opcode >= OpI32Store && i.Opcode <= OpI64Store32
}

func memarg(offset, align uint32) uint64 {
	return uint64(align)<<32 | uint64(offset)
}

// OpString returns the text format mnemonic of the instruction.
func (i *Instruction) OpString() string {
	if i.Opcode == OpPrefix {
		if i.Immediate < uint64(len(prefixNames)) {
			return prefixNames[i.Immediate]
		}
		return "invalid"
	}
	if name := opcodes[i.Opcode].name; name != "" {
		return name
	}
	return "invalid"
}

func (i *Instruction) blockString(op string) string {
	if typeidx, ok := i.BlockTypeIndex(); ok {
		return fmt.Sprintf("%s (type %d)", op, typeidx)
	}
	if result, ok := blockResults[i.Immediate]; ok {
		return op + " (result " + result + ")"
	}
	return op
}

func (i *Instruction) memString(op string) string {
	var b strings.Builder
	b.WriteString(op)
	offset, align := i.Memarg()
	if offset != 0 {
		fmt.Fprintf(&b, " offset=%d", offset)
	}
	if align != 0 {
		fmt.Fprintf(&b, " align=%d", uint64(1)<<align)
	}
	return b.String()
}

// String renders the instruction in the WebAssembly text format.
func (i *Instruction) String() string {
	op := i.OpString()
	switch opcodes[i.Opcode].imm {
	case immBlockType:
		return i.blockString(op)
	case immIndex:
		return fmt.Sprintf("%s %d", op, uint32(i.Immediate))
	case immBrTable:
		var b strings.Builder
		b.WriteString(op)
		for _, l := range i.Labels {
			fmt.Fprintf(&b, " %d", l)
		}
		fmt.Fprintf(&b, " %d", i.Default())
		return b.String()
	case immCallIndirect:
		return fmt.Sprintf("%s (type %d)", op, i.Typeidx())
	case immMemarg:
		return i.memString(op)
	case immI32:
		return fmt.Sprintf("%s %d", op, i.I32())
	case immI64:
		return fmt.Sprintf("%s %d", op, i.I64())
	case immF32:
		return fmt.Sprintf("%s %g", op, i.F32())
	case immF64:
		return fmt.Sprintf("%s %g", op, i.F64())
	default:
		return op
	}
}
