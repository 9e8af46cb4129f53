package exports

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r-james-dev/wasmpy/load"
	"github.com/r-james-dev/wasmpy/wasm"
)

// testModule imports env.log and exports "run" and "_hidden".
var testModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type: (func)
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	// import: env.log func type 0
	0x02, 0x0b, 0x01, 0x03, 'e', 'n', 'v', 0x03, 'l', 'o', 'g', 0x00, 0x00,
	// function: type 0
	0x03, 0x02, 0x01, 0x00,
	// export: run=1, _hidden=1
	0x07, 0x11, 0x02, 0x03, 'r', 'u', 'n', 0x00, 0x01, 0x07, '_', 'h', 'i', 'd', 'd', 'e', 'n', 0x00, 0x01,
	// code
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b,
}

func TestPrintExports(t *testing.T) {
	m, err := wasm.DecodeModule(bytes.NewReader(testModule))
	require.NoError(t, err)

	host := load.NewHost("demo", "demo.wasm", m)

	var buf bytes.Buffer
	require.NoError(t, printExports(&buf, host))
	assert.Equal(t, "demo.run (func)\n"+
		"demo.Func(\"_hidden\") (func)\n"+
		"requires env.log (func (type 0))\n", buf.String())
}
