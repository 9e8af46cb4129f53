// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"fmt"
	"io"

	"github.com/r-james-dev/wasmpy/wasm/leb128"
)

// Import is an interface implemented by types that can be imported by a WebAssembly module.
type Import interface {
	Kind() External
	fmt.Stringer
	isImport()
}

// ImportEntry describes an import statement in a Wasm module.
type ImportEntry struct {
	ModuleName string // module name string
	FieldName  string // field name string

	// If Kind is Function, Type is a FuncImport containing the type index of the function signature
	// If Kind is Table, Type is a TableImport containing the type of the imported table
	// If Kind is Memory, Type is a MemoryImport containing the type of the imported memory
	// If the Kind is Global, Type is a GlobalVarImport
	Type Import
}

type FuncImport struct {
	Type uint32
}

func (FuncImport) isImport() {}
func (FuncImport) Kind() External {
	return ExternalFunction
}
func (f FuncImport) String() string {
	return fmt.Sprintf("(func (type %d))", f.Type)
}

type TableImport struct {
	Type Table
}

func (TableImport) isImport() {}
func (TableImport) Kind() External {
	return ExternalTable
}
func (t TableImport) String() string {
	return t.Type.String()
}

type MemoryImport struct {
	Type Memory
}

func (MemoryImport) isImport() {}
func (MemoryImport) Kind() External {
	return ExternalMemory
}
func (t MemoryImport) String() string {
	return t.Type.String()
}

type GlobalVarImport struct {
	Type GlobalVar
}

func (GlobalVarImport) isImport() {}
func (GlobalVarImport) Kind() External {
	return ExternalGlobal
}
func (t GlobalVarImport) String() string {
	return fmt.Sprintf("(global %v)", t.Type)
}

func (i *ImportEntry) UnmarshalWASM(r io.Reader) error {
	var err error
	i.ModuleName, err = readName(r)
	if err != nil {
		return err
	}
	i.FieldName, err = readName(r)
	if err != nil {
		return err
	}
	var kind External
	err = kind.UnmarshalWASM(r)
	if err != nil {
		return err
	}

	switch kind {
	case ExternalFunction:
		var t uint32
		t, err = leb128.ReadVarUint32(r)
		i.Type = FuncImport{t}
	case ExternalTable:
		var table Table
		err = table.UnmarshalWASM(r)
		i.Type = TableImport{table}
	case ExternalMemory:
		var mem Memory
		err = mem.UnmarshalWASM(r)
		i.Type = MemoryImport{mem}
	case ExternalGlobal:
		var gl GlobalVar
		err = gl.UnmarshalWASM(r)
		i.Type = GlobalVarImport{gl}
	}
	return err
}

// IndexSpaceOffsets holds the number of imported entries of each kind. The
// locally defined entries of a kind are numbered starting at its offset.
type IndexSpaceOffsets struct {
	Func   uint32
	Table  uint32
	Memory uint32
	Global uint32
}

// Of returns the offset for the given kind.
func (o IndexSpaceOffsets) Of(kind External) uint32 {
	switch kind {
	case ExternalFunction:
		return o.Func
	case ExternalTable:
		return o.Table
	case ExternalMemory:
		return o.Memory
	case ExternalGlobal:
		return o.Global
	default:
		return 0
	}
}

func (o *IndexSpaceOffsets) add(kind External) {
	switch kind {
	case ExternalFunction:
		o.Func++
	case ExternalTable:
		o.Table++
	case ExternalMemory:
		o.Memory++
	case ExternalGlobal:
		o.Global++
	}
}
