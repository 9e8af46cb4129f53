package code

// Opcodes of the WebAssembly 1.0 instruction set plus the sign-extension and
// non-trapping float-to-int conversion extensions.
const (
	OpUnreachable  = 0x00
	OpNop          = 0x01
	OpBlock        = 0x02
	OpLoop         = 0x03
	OpIf           = 0x04
	OpElse         = 0x05
	OpEnd          = 0x0b
	OpBr           = 0x0c
	OpBrIf         = 0x0d
	OpBrTable      = 0x0e
	OpReturn       = 0x0f
	OpCall         = 0x10
	OpCallIndirect = 0x11

	OpDrop   = 0x1a
	OpSelect = 0x1b

	OpLocalGet  = 0x20
	OpLocalSet  = 0x21
	OpLocalTee  = 0x22
	OpGlobalGet = 0x23
	OpGlobalSet = 0x24

	OpI32Load    = 0x28
	OpI64Load    = 0x29
	OpF32Load    = 0x2a
	OpF64Load    = 0x2b
	OpI32Load8S  = 0x2c
	OpI32Load8U  = 0x2d
	OpI32Load16S = 0x2e
	OpI32Load16U = 0x2f
	OpI64Load8S  = 0x30
	OpI64Load8U  = 0x31
	OpI64Load16S = 0x32
	OpI64Load16U = 0x33
	OpI64Load32S = 0x34
	OpI64Load32U = 0x35
	OpI32Store   = 0x36
	OpI64Store   = 0x37
	OpF32Store   = 0x38
	OpF64Store   = 0x39
	OpI32Store8  = 0x3a
	OpI32Store16 = 0x3b
	OpI64Store8  = 0x3c
	OpI64Store16 = 0x3d
	OpI64Store32 = 0x3e
	OpMemorySize = 0x3f
	OpMemoryGrow = 0x40

	OpI32Const = 0x41
	OpI64Const = 0x42
	OpF32Const = 0x43
	OpF64Const = 0x44

	OpI32Eqz = 0x45
	OpI32Eq  = 0x46
	OpI32Ne  = 0x47
	OpI32LtS = 0x48
	OpI32LtU = 0x49
	OpI32GtS = 0x4a
	OpI32GtU = 0x4b
	OpI32LeS = 0x4c
	OpI32LeU = 0x4d
	OpI32GeS = 0x4e
	OpI32GeU = 0x4f

	OpI64Eqz = 0x50
	OpI64Eq  = 0x51
	OpI64Ne  = 0x52
	OpI64LtS = 0x53
	OpI64LtU = 0x54
	OpI64GtS = 0x55
	OpI64GtU = 0x56
	OpI64LeS = 0x57
	OpI64LeU = 0x58
	OpI64GeS = 0x59
	OpI64GeU = 0x5a

	OpF32Eq = 0x5b
	OpF32Ne = 0x5c
	OpF32Lt = 0x5d
	OpF32Gt = 0x5e
	OpF32Le = 0x5f
	OpF32Ge = 0x60

	OpF64Eq = 0x61
	OpF64Ne = 0x62
	OpF64Lt = 0x63
	OpF64Gt = 0x64
	OpF64Le = 0x65
	OpF64Ge = 0x66

	OpI32Clz    = 0x67
	OpI32Ctz    = 0x68
	OpI32Popcnt = 0x69
	OpI32Add    = 0x6a
	OpI32Sub    = 0x6b
	OpI32Mul    = 0x6c
	OpI32DivS   = 0x6d
	OpI32DivU   = 0x6e
	OpI32RemS   = 0x6f
	OpI32RemU   = 0x70
	OpI32And    = 0x71
	OpI32Or     = 0x72
	OpI32Xor    = 0x73
	OpI32Shl    = 0x74
	OpI32ShrS   = 0x75
	OpI32ShrU   = 0x76
	OpI32Rotl   = 0x77
	OpI32Rotr   = 0x78

	OpI64Clz    = 0x79
	OpI64Ctz    = 0x7a
	OpI64Popcnt = 0x7b
	OpI64Add    = 0x7c
	OpI64Sub    = 0x7d
	OpI64Mul    = 0x7e
	OpI64DivS   = 0x7f
	OpI64DivU   = 0x80
	OpI64RemS   = 0x81
	OpI64RemU   = 0x82
	OpI64And    = 0x83
	OpI64Or     = 0x84
	OpI64Xor    = 0x85
	OpI64Shl    = 0x86
	OpI64ShrS   = 0x87
	OpI64ShrU   = 0x88
	OpI64Rotl   = 0x89
	OpI64Rotr   = 0x8a

	OpF32Abs      = 0x8b
	OpF32Neg      = 0x8c
	OpF32Ceil     = 0x8d
	OpF32Floor    = 0x8e
	OpF32Trunc    = 0x8f
	OpF32Nearest  = 0x90
	OpF32Sqrt     = 0x91
	OpF32Add      = 0x92
	OpF32Sub      = 0x93
	OpF32Mul      = 0x94
	OpF32Div      = 0x95
	OpF32Min      = 0x96
	OpF32Max      = 0x97
	OpF32Copysign = 0x98

	OpF64Abs      = 0x99
	OpF64Neg      = 0x9a
	OpF64Ceil     = 0x9b
	OpF64Floor    = 0x9c
	OpF64Trunc    = 0x9d
	OpF64Nearest  = 0x9e
	OpF64Sqrt     = 0x9f
	OpF64Add      = 0xa0
	OpF64Sub      = 0xa1
	OpF64Mul      = 0xa2
	OpF64Div      = 0xa3
	OpF64Min      = 0xa4
	OpF64Max      = 0xa5
	OpF64Copysign = 0xa6

	OpI32WrapI64        = 0xa7
	OpI32TruncF32S      = 0xa8
	OpI32TruncF32U      = 0xa9
	OpI32TruncF64S      = 0xaa
	OpI32TruncF64U      = 0xab
	OpI64ExtendI32S     = 0xac
	OpI64ExtendI32U     = 0xad
	OpI64TruncF32S      = 0xae
	OpI64TruncF32U      = 0xaf
	OpI64TruncF64S      = 0xb0
	OpI64TruncF64U      = 0xb1
	OpF32ConvertI32S    = 0xb2
	OpF32ConvertI32U    = 0xb3
	OpF32ConvertI64S    = 0xb4
	OpF32ConvertI64U    = 0xb5
	OpF32DemoteF64      = 0xb6
	OpF64ConvertI32S    = 0xb7
	OpF64ConvertI32U    = 0xb8
	OpF64ConvertI64S    = 0xb9
	OpF64ConvertI64U    = 0xba
	OpF64PromoteF32     = 0xbb
	OpI32ReinterpretF32 = 0xbc
	OpI64ReinterpretF64 = 0xbd
	OpF32ReinterpretI32 = 0xbe
	OpF64ReinterpretI64 = 0xbf

	OpI32Extend8S  = 0xc0
	OpI32Extend16S = 0xc1
	OpI64Extend8S  = 0xc2
	OpI64Extend16S = 0xc3
	OpI64Extend32S = 0xc4

	// OpPrefix introduces the non-trapping conversions, whose LEB128 encoded
	// sub-opcode is stored in Instruction.Immediate.
	OpPrefix = 0xfc
)

// Sub-opcodes of OpPrefix.
const (
	OpI32TruncSatF32S = 0
	OpI32TruncSatF32U = 1
	OpI32TruncSatF64S = 2
	OpI32TruncSatF64U = 3
	OpI64TruncSatF32S = 4
	OpI64TruncSatF32U = 5
	OpI64TruncSatF64S = 6
	OpI64TruncSatF64U = 7
)

// immediate describes the shape of the operands that follow an opcode.
type immediate uint8

const (
	immNone immediate = iota
	immBlockType
	immIndex
	immBrTable
	immCallIndirect
	immMemarg
	immReserved
	immI32
	immI64
	immF32
	immF64
	immPrefix
)

type opcodeInfo struct {
	name string
	imm  immediate
}

var opcodes = [256]opcodeInfo{
	OpUnreachable:       {"unreachable", immNone},
	OpNop:               {"nop", immNone},
	OpBlock:             {"block", immBlockType},
	OpLoop:              {"loop", immBlockType},
	OpIf:                {"if", immBlockType},
	OpElse:              {"else", immNone},
	OpEnd:               {"end", immNone},
	OpBr:                {"br", immIndex},
	OpBrIf:              {"br_if", immIndex},
	OpBrTable:           {"br_table", immBrTable},
	OpReturn:            {"return", immNone},
	OpCall:              {"call", immIndex},
	OpCallIndirect:      {"call_indirect", immCallIndirect},
	OpDrop:              {"drop", immNone},
	OpSelect:            {"select", immNone},
	OpLocalGet:          {"local.get", immIndex},
	OpLocalSet:          {"local.set", immIndex},
	OpLocalTee:          {"local.tee", immIndex},
	OpGlobalGet:         {"global.get", immIndex},
	OpGlobalSet:         {"global.set", immIndex},
	OpI32Load:           {"i32.load", immMemarg},
	OpI64Load:           {"i64.load", immMemarg},
	OpF32Load:           {"f32.load", immMemarg},
	OpF64Load:           {"f64.load", immMemarg},
	OpI32Load8S:         {"i32.load8_s", immMemarg},
	OpI32Load8U:         {"i32.load8_u", immMemarg},
	OpI32Load16S:        {"i32.load16_s", immMemarg},
	OpI32Load16U:        {"i32.load16_u", immMemarg},
	OpI64Load8S:         {"i64.load8_s", immMemarg},
	OpI64Load8U:         {"i64.load8_u", immMemarg},
	OpI64Load16S:        {"i64.load16_s", immMemarg},
	OpI64Load16U:        {"i64.load16_u", immMemarg},
	OpI64Load32S:        {"i64.load32_s", immMemarg},
	OpI64Load32U:        {"i64.load32_u", immMemarg},
	OpI32Store:          {"i32.store", immMemarg},
	OpI64Store:          {"i64.store", immMemarg},
	OpF32Store:          {"f32.store", immMemarg},
	OpF64Store:          {"f64.store", immMemarg},
	OpI32Store8:         {"i32.store8", immMemarg},
	OpI32Store16:        {"i32.store16", immMemarg},
	OpI64Store8:         {"i64.store8", immMemarg},
	OpI64Store16:        {"i64.store16", immMemarg},
	OpI64Store32:        {"i64.store32", immMemarg},
	OpMemorySize:        {"memory.size", immReserved},
	OpMemoryGrow:        {"memory.grow", immReserved},
	OpI32Const:          {"i32.const", immI32},
	OpI64Const:          {"i64.const", immI64},
	OpF32Const:          {"f32.const", immF32},
	OpF64Const:          {"f64.const", immF64},
	OpI32Eqz:            {"i32.eqz", immNone},
	OpI32Eq:             {"i32.eq", immNone},
	OpI32Ne:             {"i32.ne", immNone},
	OpI32LtS:            {"i32.lt_s", immNone},
	OpI32LtU:            {"i32.lt_u", immNone},
	OpI32GtS:            {"i32.gt_s", immNone},
	OpI32GtU:            {"i32.gt_u", immNone},
	OpI32LeS:            {"i32.le_s", immNone},
	OpI32LeU:            {"i32.le_u", immNone},
	OpI32GeS:            {"i32.ge_s", immNone},
	OpI32GeU:            {"i32.ge_u", immNone},
	OpI64Eqz:            {"i64.eqz", immNone},
	OpI64Eq:             {"i64.eq", immNone},
	OpI64Ne:             {"i64.ne", immNone},
	OpI64LtS:            {"i64.lt_s", immNone},
	OpI64LtU:            {"i64.lt_u", immNone},
	OpI64GtS:            {"i64.gt_s", immNone},
	OpI64GtU:            {"i64.gt_u", immNone},
	OpI64LeS:            {"i64.le_s", immNone},
	OpI64LeU:            {"i64.le_u", immNone},
	OpI64GeS:            {"i64.ge_s", immNone},
	OpI64GeU:            {"i64.ge_u", immNone},
	OpF32Eq:             {"f32.eq", immNone},
	OpF32Ne:             {"f32.ne", immNone},
	OpF32Lt:             {"f32.lt", immNone},
	OpF32Gt:             {"f32.gt", immNone},
	OpF32Le:             {"f32.le", immNone},
	OpF32Ge:             {"f32.ge", immNone},
	OpF64Eq:             {"f64.eq", immNone},
	OpF64Ne:             {"f64.ne", immNone},
	OpF64Lt:             {"f64.lt", immNone},
	OpF64Gt:             {"f64.gt", immNone},
	OpF64Le:             {"f64.le", immNone},
	OpF64Ge:             {"f64.ge", immNone},
	OpI32Clz:            {"i32.clz", immNone},
	OpI32Ctz:            {"i32.ctz", immNone},
	OpI32Popcnt:         {"i32.popcnt", immNone},
	OpI32Add:            {"i32.add", immNone},
	OpI32Sub:            {"i32.sub", immNone},
	OpI32Mul:            {"i32.mul", immNone},
	OpI32DivS:           {"i32.div_s", immNone},
	OpI32DivU:           {"i32.div_u", immNone},
	OpI32RemS:           {"i32.rem_s", immNone},
	OpI32RemU:           {"i32.rem_u", immNone},
	OpI32And:            {"i32.and", immNone},
	OpI32Or:             {"i32.or", immNone},
	OpI32Xor:            {"i32.xor", immNone},
	OpI32Shl:            {"i32.shl", immNone},
	OpI32ShrS:           {"i32.shr_s", immNone},
	OpI32ShrU:           {"i32.shr_u", immNone},
	OpI32Rotl:           {"i32.rotl", immNone},
	OpI32Rotr:           {"i32.rotr", immNone},
	OpI64Clz:            {"i64.clz", immNone},
	OpI64Ctz:            {"i64.ctz", immNone},
	OpI64Popcnt:         {"i64.popcnt", immNone},
	OpI64Add:            {"i64.add", immNone},
	OpI64Sub:            {"i64.sub", immNone},
	OpI64Mul:            {"i64.mul", immNone},
	OpI64DivS:           {"i64.div_s", immNone},
	OpI64DivU:           {"i64.div_u", immNone},
	OpI64RemS:           {"i64.rem_s", immNone},
	OpI64RemU:           {"i64.rem_u", immNone},
	OpI64And:            {"i64.and", immNone},
	OpI64Or:             {"i64.or", immNone},
	OpI64Xor:            {"i64.xor", immNone},
	OpI64Shl:            {"i64.shl", immNone},
	OpI64ShrS:           {"i64.shr_s", immNone},
	OpI64ShrU:           {"i64.shr_u", immNone},
	OpI64Rotl:           {"i64.rotl", immNone},
	OpI64Rotr:           {"i64.rotr", immNone},
	OpF32Abs:            {"f32.abs", immNone},
	OpF32Neg:            {"f32.neg", immNone},
	OpF32Ceil:           {"f32.ceil", immNone},
	OpF32Floor:          {"f32.floor", immNone},
	OpF32Trunc:          {"f32.trunc", immNone},
	OpF32Nearest:        {"f32.nearest", immNone},
	OpF32Sqrt:           {"f32.sqrt", immNone},
	OpF32Add:            {"f32.add", immNone},
	OpF32Sub:            {"f32.sub", immNone},
	OpF32Mul:            {"f32.mul", immNone},
	OpF32Div:            {"f32.div", immNone},
	OpF32Min:            {"f32.min", immNone},
	OpF32Max:            {"f32.max", immNone},
	OpF32Copysign:       {"f32.copysign", immNone},
	OpF64Abs:            {"f64.abs", immNone},
	OpF64Neg:            {"f64.neg", immNone},
	OpF64Ceil:           {"f64.ceil", immNone},
	OpF64Floor:          {"f64.floor", immNone},
	OpF64Trunc:          {"f64.trunc", immNone},
	OpF64Nearest:        {"f64.nearest", immNone},
	OpF64Sqrt:           {"f64.sqrt", immNone},
	OpF64Add:            {"f64.add", immNone},
	OpF64Sub:            {"f64.sub", immNone},
	OpF64Mul:            {"f64.mul", immNone},
	OpF64Div:            {"f64.div", immNone},
	OpF64Min:            {"f64.min", immNone},
	OpF64Max:            {"f64.max", immNone},
	OpF64Copysign:       {"f64.copysign", immNone},
	OpI32WrapI64:        {"i32.wrap_i64", immNone},
	OpI32TruncF32S:      {"i32.trunc_f32_s", immNone},
	OpI32TruncF32U:      {"i32.trunc_f32_u", immNone},
	OpI32TruncF64S:      {"i32.trunc_f64_s", immNone},
	OpI32TruncF64U:      {"i32.trunc_f64_u", immNone},
	OpI64ExtendI32S:     {"i64.extend_i32_s", immNone},
	OpI64ExtendI32U:     {"i64.extend_i32_u", immNone},
	OpI64TruncF32S:      {"i64.trunc_f32_s", immNone},
	OpI64TruncF32U:      {"i64.trunc_f32_u", immNone},
	OpI64TruncF64S:      {"i64.trunc_f64_s", immNone},
	OpI64TruncF64U:      {"i64.trunc_f64_u", immNone},
	OpF32ConvertI32S:    {"f32.convert_i32_s", immNone},
	OpF32ConvertI32U:    {"f32.convert_i32_u", immNone},
	OpF32ConvertI64S:    {"f32.convert_i64_s", immNone},
	OpF32ConvertI64U:    {"f32.convert_i64_u", immNone},
	OpF32DemoteF64:      {"f32.demote_f64", immNone},
	OpF64ConvertI32S:    {"f64.convert_i32_s", immNone},
	OpF64ConvertI32U:    {"f64.convert_i32_u", immNone},
	OpF64ConvertI64S:    {"f64.convert_i64_s", immNone},
	OpF64ConvertI64U:    {"f64.convert_i64_u", immNone},
	OpF64PromoteF32:     {"f64.promote_f32", immNone},
	OpI32ReinterpretF32: {"i32.reinterpret_f32", immNone},
	OpI64ReinterpretF64: {"i64.reinterpret_f64", immNone},
	OpF32ReinterpretI32: {"f32.reinterpret_i32", immNone},
	OpF64ReinterpretI64: {"f64.reinterpret_i64", immNone},
	OpI32Extend8S:       {"i32.extend8_s", immNone},
	OpI32Extend16S:      {"i32.extend16_s", immNone},
	OpI64Extend8S:       {"i64.extend8_s", immNone},
	OpI64Extend16S:      {"i64.extend16_s", immNone},
	OpI64Extend32S:      {"i64.extend32_s", immNone},
	OpPrefix:            {"", immPrefix},
}

var prefixNames = [...]string{
	OpI32TruncSatF32S: "i32.trunc_sat_f32_s",
	OpI32TruncSatF32U: "i32.trunc_sat_f32_u",
	OpI32TruncSatF64S: "i32.trunc_sat_f64_s",
	OpI32TruncSatF64U: "i32.trunc_sat_f64_u",
	OpI64TruncSatF32S: "i64.trunc_sat_f32_s",
	OpI64TruncSatF32U: "i64.trunc_sat_f32_u",
	OpI64TruncSatF64S: "i64.trunc_sat_f64_s",
	OpI64TruncSatF64U: "i64.trunc_sat_f64_u",
}
