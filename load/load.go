// Package load reads WebAssembly binaries from files and exposes the functions
// they export.
package load

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/r-james-dev/wasmpy/wasm"
)

// LoadModule decodes a module from r.
func LoadModule(r io.Reader, opts ...wasm.DecodeOption) (*wasm.Module, error) {
	if _, ok := r.(io.ByteReader); !ok {
		r = bufio.NewReader(r)
	}
	return wasm.DecodeModule(r, opts...)
}

// LoadFile decodes the module stored at path. The file is mapped into memory
// where the platform supports it. The file and any mapping are released before
// LoadFile returns; the decoded module does not refer to them.
func LoadFile(path string, opts ...wasm.DecodeOption) (m *wasm.Module, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, release, err := mapFile(f)
	if err != nil {
		return nil, fmt.Errorf("reading %v: %w", path, err)
	}
	defer func() {
		if rerr := release(); rerr != nil && err == nil {
			m, err = nil, fmt.Errorf("releasing %v: %w", path, rerr)
		}
	}()

	m, err = LoadModule(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, fmt.Errorf("decoding %v: %w", path, err)
	}
	return m, nil
}

func readAll(f *os.File) ([]byte, func() error, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
