package code

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/r-james-dev/wasmpy/wasm/leb128"
)

var ErrInvalidInstruction = errors.New("wasm: invalid instruction")

// InvalidOpcodeError is returned for an opcode outside the supported
// instruction set. Prefixed opcodes are reported as 0xfc00|subop.
type InvalidOpcodeError uint32

func (e InvalidOpcodeError) Error() string {
	return fmt.Sprintf("wasm: invalid opcode 0x%02x", uint32(e))
}

type InvalidBlockTypeError int64

func (e InvalidBlockTypeError) Error() string {
	return fmt.Sprintf("wasm: invalid block type %d", int64(e))
}

// Expr is a decoded instruction sequence: a function body or a constant
// initializer expression. The final instruction is always the End that
// closes the implicit outer block.
type Expr []Instruction

func readByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var b [1]byte
	_, err := io.ReadFull(r, b[:])
	return b[0], err
}

func readReserved(r io.Reader) error {
	b, err := readByte(r)
	if err != nil {
		return err
	}
	if b != 0x00 {
		return ErrInvalidInstruction
	}
	return nil
}

func decodeBlockType(r io.Reader) (uint64, error) {
	n, err := leb128.ReadVarint33(r)
	if err != nil {
		return 0, err
	}
	if n >= 0 {
		return BlockType(uint32(n)), nil
	}

	switch n & 0x7f {
	case 0x40, 0x7f, 0x7e, 0x7d, 0x7c:
		if n >= -64 {
			return uint64(n&0x7f) | BlockTypeSpecial, nil
		}
	}
	return 0, InvalidBlockTypeError(n)
}

// decodeInstruction reads one instruction and its immediates from r.
func decodeInstruction(r io.Reader) (Instruction, error) {
	opcode, err := readByte(r)
	if err != nil {
		return Instruction{}, err
	}

	info := opcodes[opcode]
	if info.name == "" && opcode != OpPrefix {
		return Instruction{}, InvalidOpcodeError(opcode)
	}

	instr := Instruction{Opcode: opcode}
	switch info.imm {
	case immBlockType:
		instr.Immediate, err = decodeBlockType(r)
	case immIndex:
		var index uint32
		index, err = leb128.ReadVarUint32(r)
		instr.Immediate = uint64(index)
	case immBrTable:
		var count uint32
		if count, err = leb128.ReadVarUint32(r); err != nil {
			break
		}
		instr.Labels = make([]uint32, 0, getInitialCap(count))
		for j := uint32(0); j < count; j++ {
			var label uint32
			if label, err = leb128.ReadVarUint32(r); err != nil {
				break
			}
			instr.Labels = append(instr.Labels, label)
		}
		if err != nil {
			break
		}
		var def uint32
		def, err = leb128.ReadVarUint32(r)
		instr.Immediate = uint64(def)
	case immCallIndirect:
		var index uint32
		if index, err = leb128.ReadVarUint32(r); err != nil {
			break
		}
		instr.Immediate = uint64(index)
		err = readReserved(r)
	case immMemarg:
		var align, offset uint32
		if align, err = leb128.ReadVarUint32(r); err != nil {
			break
		}
		if offset, err = leb128.ReadVarUint32(r); err != nil {
			break
		}
		instr.Immediate = memarg(offset, align)
	case immReserved:
		err = readReserved(r)
	case immI32:
		var v int32
		v, err = leb128.ReadVarint32(r)
		instr.Immediate = uint64(uint32(v))
	case immI64:
		var v int64
		v, err = leb128.ReadVarint64(r)
		instr.Immediate = uint64(v)
	case immF32:
		var buf [4]byte
		if _, err = io.ReadFull(r, buf[:]); err == nil {
			instr.Immediate = uint64(binary.LittleEndian.Uint32(buf[:]))
		}
	case immF64:
		var buf [8]byte
		if _, err = io.ReadFull(r, buf[:]); err == nil {
			instr.Immediate = binary.LittleEndian.Uint64(buf[:])
		}
	case immPrefix:
		var sub uint32
		if sub, err = leb128.ReadVarUint32(r); err != nil {
			break
		}
		if sub >= uint32(len(prefixNames)) {
			return Instruction{}, InvalidOpcodeError(OpPrefix<<8 | sub)
		}
		instr.Immediate = uint64(sub)
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return Instruction{}, err
	}
	return instr, nil
}

// DecodeExpr reads instructions from r up to and including the End that
// closes the expression. Block, Loop and If open a nested block that must be
// closed by its own End first. The instructions are not validated.
func DecodeExpr(r io.Reader) (Expr, error) {
	var expr Expr
	for depth := 1; depth > 0; {
		instr, err := decodeInstruction(r)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}

		switch instr.Opcode {
		case OpBlock, OpLoop, OpIf:
			depth++
		case OpEnd:
			depth--
		}
		expr = append(expr, instr)
	}
	return expr, nil
}

const maxInitialCap = 10 * 1024

func getInitialCap(count uint32) uint32 {
	if count > maxInitialCap {
		return maxInitialCap
	}
	return count
}
