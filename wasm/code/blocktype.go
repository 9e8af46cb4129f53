package code

// Block types are stored in Instruction.Immediate. The single-byte forms have
// BlockTypeSpecial set; anything else is an index into the type section.
const (
	BlockTypeSpecial = 0x8000000000000000

	BlockTypeEmpty = 0x40 | BlockTypeSpecial
	BlockTypeI32   = 0x7f | BlockTypeSpecial
	BlockTypeI64   = 0x7e | BlockTypeSpecial
	BlockTypeF32   = 0x7d | BlockTypeSpecial
	BlockTypeF64   = 0x7c | BlockTypeSpecial
)

var blockResults = map[uint64]string{
	BlockTypeI32: "i32",
	BlockTypeI64: "i64",
	BlockTypeF32: "f32",
	BlockTypeF64: "f64",
}

// BlockType returns the block type immediate that refers to the given type index.
func BlockType(typeidx uint32) uint64 {
	return uint64(typeidx)
}

// BlockTypeIndex returns the type index named by a block, loop, or if
// instruction. The second result is false for the single-byte block types.
func (i *Instruction) BlockTypeIndex() (uint32, bool) {
	if i.Immediate&BlockTypeSpecial != 0 {
		return 0, false
	}
	return uint32(i.Immediate), true
}
