// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"encoding/binary"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/r-james-dev/wasmpy/wasm/code"
	"github.com/r-james-dev/wasmpy/wasm/internal/readpos"
)

const (
	Magic   uint32 = 0x6d736100
	Version uint32 = 0x1
)

// Function represents a locally defined function. Its index in the function
// index space is its position in Module.Funcs plus Module.Offsets.Func.
type Function struct {
	TypeIndex uint32
	Sig       FunctionSig
	Locals    []ValueType // Locals excludes the parameters.
	Body      code.Expr
}

// Module represents a parsed WebAssembly module:
// http://webassembly.org/docs/modules/
type Module struct {
	Version  uint32
	Sections []RawSection

	Types    []FunctionSig
	Imports  []ImportEntry
	Funcs    []Function
	Tables   []Table
	Memories []Memory
	Globals  []GlobalEntry
	Exports  []ExportEntry
	Start    *uint32
	Elements []ElementSegment
	Data     []DataSegment

	// Customs holds every custom section except the one consumed for Names.
	Customs []*SectionCustom
	Names   NameMetadata

	Offsets IndexSpaceOffsets
}

func newModule() *Module {
	return &Module{
		Sections: []RawSection{},
		Types:    []FunctionSig{},
		Imports:  []ImportEntry{},
		Funcs:    []Function{},
		Tables:   []Table{},
		Memories: []Memory{},
		Globals:  []GlobalEntry{},
		Exports:  []ExportEntry{},
		Elements: []ElementSegment{},
		Data:     []DataSegment{},
		Customs:  []*SectionCustom{},
	}
}

// Custom returns a custom section with a specific name, if it exists.
func (m *Module) Custom(name string) *SectionCustom {
	for _, s := range m.Customs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// FunctionSig returns the signature of the function with the given index in
// the function index space, which includes imported functions.
func (m *Module) FunctionSig(index uint32) (FunctionSig, bool) {
	if index < m.Offsets.Func {
		n := uint32(0)
		for _, imp := range m.Imports {
			f, ok := imp.Type.(FuncImport)
			if !ok {
				continue
			}
			if n == index {
				if int64(f.Type) >= int64(len(m.Types)) {
					return FunctionSig{}, false
				}
				return m.Types[f.Type], true
			}
			n++
		}
		return FunctionSig{}, false
	}
	local := int64(index) - int64(m.Offsets.Func)
	if local >= int64(len(m.Funcs)) {
		return FunctionSig{}, false
	}
	return m.Funcs[local].Sig, true
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// DecodeModule decodes a WASM module.
//
// Decoding stops without error at the end of the input, at a section whose
// payload is shorter than its declared size, or at a non-custom section that
// is out of order; the sections decoded up to that point are returned.
// Any structural error inside a section payload is returned as a
// *MalformedSectionError and no module is returned.
func DecodeModule(r io.Reader, opts ...DecodeOption) (*Module, error) {
	options := decodeOptions{logger: zap.NewNop()}
	for _, o := range opts {
		o(&options)
	}

	reader := readpos.New(r)
	magic, err := readU32(reader)
	if err != nil || magic != Magic {
		return nil, ErrInvalidMagic
	}
	m := newModule()
	if m.Version, err = readU32(reader); err != nil || m.Version != Version {
		return nil, ErrInvalidVersion
	}

	sr := newSectionsReader(m, options.logger)
	if err = sr.readSections(reader); err != nil {
		return nil, err
	}
	if m.Funcs, err = sr.functions(); err != nil {
		return nil, err
	}

	m.Names, m.Customs = extractNames(m.Customs, options.logger)

	options.logger.Debug("decoded module",
		zap.Int("sections", len(m.Sections)),
		zap.Int("types", len(m.Types)),
		zap.Int("imports", len(m.Imports)),
		zap.Int("funcs", len(m.Funcs)),
		zap.Int("exports", len(m.Exports)))
	return m, nil
}

// MustDecode decodes a WASM module and panics on failure.
func MustDecode(r io.Reader, opts ...DecodeOption) *Module {
	m, err := DecodeModule(r, opts...)
	if err != nil {
		panic(fmt.Errorf("decoding module: %w", err))
	}
	return m
}
