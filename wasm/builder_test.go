package wasm_test

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func preamble() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
}

func section(id byte, payload ...[]byte) []byte {
	p := concat(payload...)
	return concat([]byte{id}, uleb(uint32(len(p))), p)
}

func vec(count int, items ...[]byte) []byte {
	return concat(append([][]byte{uleb(uint32(count))}, items...)...)
}

func name(s string) []byte {
	return concat(uleb(uint32(len(s))), []byte(s))
}

func module(sections ...[]byte) []byte {
	return concat(append([][]byte{preamble()}, sections...)...)
}

// body encodes a function body with the given run-length local groups and code.
func body(locals []byte, instrs ...byte) []byte {
	b := concat(locals, instrs)
	return concat(uleb(uint32(len(b))), b)
}

func customSection(sectionName string, data ...[]byte) []byte {
	return section(0x00, append([][]byte{name(sectionName)}, data...)...)
}
