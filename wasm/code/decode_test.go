package code

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeExpr(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected Expr
	}{
		{
			name:     "i32.const",
			input:    []byte{OpI32Const, 0x7f, OpEnd},
			expected: Expr{{Opcode: OpI32Const, Immediate: 0xffffffff}, {Opcode: OpEnd}},
		},
		{
			name:     "global.get",
			input:    []byte{OpGlobalGet, 0x02, OpEnd},
			expected: Expr{{Opcode: OpGlobalGet, Immediate: 2}, {Opcode: OpEnd}},
		},
		{
			name:     "i64.const",
			input:    []byte{OpI64Const, 0xc0, 0xbb, 0x78, OpEnd},
			expected: Expr{{Opcode: OpI64Const, Immediate: uint64(0xfffffffffffe1dc0)}, {Opcode: OpEnd}},
		},
		{
			name:     "f32.const",
			input:    []byte{OpF32Const, 0x00, 0x00, 0x80, 0x3f, OpEnd},
			expected: Expr{{Opcode: OpF32Const, Immediate: 0x3f800000}, {Opcode: OpEnd}},
		},
		{
			name:     "f64.const",
			input:    []byte{OpF64Const, 0, 0, 0, 0, 0, 0, 0xf0, 0x3f, OpEnd},
			expected: Expr{{Opcode: OpF64Const, Immediate: 0x3ff0000000000000}, {Opcode: OpEnd}},
		},
		{
			name: "nested blocks",
			input: []byte{
				OpBlock, 0x40,
				OpLoop, 0x7f,
				OpI32Const, 0x01,
				OpEnd,
				OpDrop,
				OpEnd,
				OpEnd,
			},
			expected: Expr{
				{Opcode: OpBlock, Immediate: BlockTypeEmpty},
				{Opcode: OpLoop, Immediate: BlockTypeI32},
				{Opcode: OpI32Const, Immediate: 1},
				{Opcode: OpEnd},
				{Opcode: OpDrop},
				{Opcode: OpEnd},
				{Opcode: OpEnd},
			},
		},
		{
			name: "if else",
			input: []byte{
				OpLocalGet, 0x00,
				OpIf, 0x7e,
				OpI64Const, 0x01,
				OpElse,
				OpI64Const, 0x02,
				OpEnd,
				OpDrop,
				OpEnd,
			},
			expected: Expr{
				{Opcode: OpLocalGet},
				{Opcode: OpIf, Immediate: BlockTypeI64},
				{Opcode: OpI64Const, Immediate: 1},
				{Opcode: OpElse},
				{Opcode: OpI64Const, Immediate: 2},
				{Opcode: OpEnd},
				{Opcode: OpDrop},
				{Opcode: OpEnd},
			},
		},
		{
			name:     "block with type index",
			input:    []byte{OpBlock, 0x03, OpEnd, OpEnd},
			expected: Expr{{Opcode: OpBlock, Immediate: BlockType(3)}, {Opcode: OpEnd}, {Opcode: OpEnd}},
		},
		{
			name:  "br_table",
			input: []byte{OpBrTable, 0x02, 0x00, 0x01, 0x02, OpEnd},
			expected: Expr{
				{Opcode: OpBrTable, Immediate: 2, Labels: []uint32{0, 1}},
				{Opcode: OpEnd},
			},
		},
		{
			name:  "call_indirect",
			input: []byte{OpCallIndirect, 0x01, 0x00, OpEnd},
			expected: Expr{
				{Opcode: OpCallIndirect, Immediate: 1},
				{Opcode: OpEnd},
			},
		},
		{
			name:  "memory",
			input: []byte{OpI32Load, 0x02, 0x10, OpMemoryGrow, 0x00, OpEnd},
			expected: Expr{
				{Opcode: OpI32Load, Immediate: 2<<32 | 0x10},
				{Opcode: OpMemoryGrow},
				{Opcode: OpEnd},
			},
		},
		{
			name:  "saturating truncation",
			input: []byte{OpPrefix, OpI64TruncSatF64U, OpEnd},
			expected: Expr{
				{Opcode: OpPrefix, Immediate: OpI64TruncSatF64U},
				{Opcode: OpEnd},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader(append(tt.input, 0xff))
			expr, err := DecodeExpr(r)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, expr)

			// Decoding stops at the closing end.
			assert.Equal(t, 1, r.Len())
		})
	}
}

func TestDecodeExprErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected error
	}{
		{name: "empty", input: nil, expected: io.ErrUnexpectedEOF},
		{name: "missing end", input: []byte{OpNop}, expected: io.ErrUnexpectedEOF},
		{name: "unclosed block", input: []byte{OpBlock, 0x40, OpEnd}, expected: io.ErrUnexpectedEOF},
		{name: "truncated immediate", input: []byte{OpF64Const, 0x00, 0x00}, expected: io.ErrUnexpectedEOF},
		{name: "truncated leb", input: []byte{OpI32Const, 0x80}, expected: io.ErrUnexpectedEOF},
		{name: "unknown opcode", input: []byte{0x06, OpEnd}, expected: InvalidOpcodeError(0x06)},
		{name: "unknown prefixed opcode", input: []byte{OpPrefix, 0x08, OpEnd}, expected: InvalidOpcodeError(0xfc08)},
		{name: "memory.size reserved byte", input: []byte{OpMemorySize, 0x01, OpEnd}, expected: ErrInvalidInstruction},
		{name: "call_indirect reserved byte", input: []byte{OpCallIndirect, 0x00, 0x01, OpEnd}, expected: ErrInvalidInstruction},
		{name: "block type", input: []byte{OpBlock, 0x70, OpEnd, OpEnd}, expected: InvalidBlockTypeError(-16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeExpr(bytes.NewReader(tt.input))
			assert.Equal(t, tt.expected, err)
		})
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		instr    Instruction
		expected string
	}{
		{Instruction{Opcode: OpNop}, "nop"},
		{Instruction{Opcode: OpBlock, Immediate: BlockTypeEmpty}, "block"},
		{Instruction{Opcode: OpIf, Immediate: BlockTypeF64}, "if (result f64)"},
		{Instruction{Opcode: OpLoop, Immediate: BlockType(4)}, "loop (type 4)"},
		{Instruction{Opcode: OpBrTable, Immediate: 3, Labels: []uint32{1, 2}}, "br_table 1 2 3"},
		{Instruction{Opcode: OpCall, Immediate: 7}, "call 7"},
		{Instruction{Opcode: OpCallIndirect, Immediate: 1}, "call_indirect (type 1)"},
		{Instruction{Opcode: OpI64Store, Immediate: 3<<32 | 8}, "i64.store offset=8 align=8"},
		{Instruction{Opcode: OpI32Const, Immediate: 0xffffffff}, "i32.const -1"},
		{Instruction{Opcode: OpF32Const, Immediate: 0x3f800000}, "f32.const 1"},
		{Instruction{Opcode: OpPrefix, Immediate: OpI32TruncSatF32U}, "i32.trunc_sat_f32_u"},
		{Instruction{Opcode: OpI64Extend32S}, "i64.extend32_s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.instr.String())
		})
	}
}

func TestMetrics(t *testing.T) {
	expr := Expr{
		{Opcode: OpBlock, Immediate: BlockTypeEmpty},
		{Opcode: OpLoop, Immediate: BlockTypeEmpty},
		{Opcode: OpBr, Immediate: 0},
		{Opcode: OpEnd},
		{Opcode: OpEnd},
		{Opcode: OpIf, Immediate: BlockTypeEmpty},
		{Opcode: OpEnd},
		{Opcode: OpEnd},
	}

	assert.Equal(t, Metrics{
		MaxNesting:       3,
		LabelCount:       3,
		InstructionCount: 8,
		HasLoops:         true,
	}, expr.Metrics())
}
