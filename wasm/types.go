// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/r-james-dev/wasmpy/wasm/leb128"
)

// Unmarshaler is implemented by types that decode themselves from the binary format.
type Unmarshaler interface {
	UnmarshalWASM(r io.Reader) error
}

type InvalidValueTypeError byte

func (e InvalidValueTypeError) Error() string {
	return fmt.Sprintf("wasm: invalid value type 0x%x", byte(e))
}

// ValueType represents the type of a valid value in Wasm
type ValueType byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c
)

var valueTypeStrMap = map[ValueType]string{
	ValueTypeI32: "i32",
	ValueTypeI64: "i64",
	ValueTypeF32: "f32",
	ValueTypeF64: "f64",
}

func (t ValueType) String() string {
	str, ok := valueTypeStrMap[t]
	if !ok {
		str = fmt.Sprintf("<unknown value_type %d>", byte(t))
	}
	return str
}

func (t *ValueType) UnmarshalWASM(r io.Reader) error {
	v, err := readByte(r)
	if err != nil {
		return err
	}
	switch vt := ValueType(v); vt {
	case ValueTypeI32, ValueTypeI64, ValueTypeF32, ValueTypeF64:
		*t = vt
		return nil
	default:
		return InvalidValueTypeError(v)
	}
}

func readValueTypes(r io.Reader) ([]ValueType, error) {
	count, err := leb128.ReadVarUint32(r)
	if err != nil {
		return nil, err
	}
	types := make([]ValueType, 0, getInitialCap(count))
	for i := uint32(0); i < count; i++ {
		var t ValueType
		if err := t.UnmarshalWASM(r); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// TypeFunc is the tag that introduces a function signature.
const TypeFunc = 0x60

type InvalidFuncTypeTagError byte

func (e InvalidFuncTypeTagError) Error() string {
	return fmt.Sprintf("wasm: invalid function type tag 0x%x", byte(e))
}

// FunctionSig describes the signature of a declared function in a WASM module
type FunctionSig struct {
	ParamTypes  []ValueType `json:"params"`
	ReturnTypes []ValueType `json:"returns"`
}

func (f FunctionSig) String() string {
	var b strings.Builder
	b.WriteString("(func")
	if len(f.ParamTypes) != 0 {
		b.WriteString(" (param")
		for _, t := range f.ParamTypes {
			b.WriteByte(' ')
			b.WriteString(t.String())
		}
		b.WriteByte(')')
	}
	if len(f.ReturnTypes) != 0 {
		b.WriteString(" (result")
		for _, t := range f.ReturnTypes {
			b.WriteByte(' ')
			b.WriteString(t.String())
		}
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}

func (f *FunctionSig) UnmarshalWASM(r io.Reader) error {
	form, err := readByte(r)
	if err != nil {
		return err
	}
	if form != TypeFunc {
		return InvalidFuncTypeTagError(form)
	}

	if f.ParamTypes, err = readValueTypes(r); err != nil {
		return err
	}
	f.ReturnTypes, err = readValueTypes(r)
	return err
}

type InvalidLimitsFlagError byte

func (e InvalidLimitsFlagError) Error() string {
	return fmt.Sprintf("wasm: invalid limits flag 0x%x", byte(e))
}

// ResizableLimits describe the limit of a table or linear memory.
type ResizableLimits struct {
	Flags   uint8  // 1 if the Maximum field is valid, 0 otherwise
	Initial uint32 // initial length (in units of table elements or wasm pages)
	Maximum uint32 // If flags is 1, it describes the maximum size of the table or memory
}

// HasMaximum reports whether the limits carry a maximum.
func (lim ResizableLimits) HasMaximum() bool {
	return lim.Flags&0x1 != 0
}

func (lim ResizableLimits) String() string {
	if lim.HasMaximum() {
		return fmt.Sprintf("%d %d", lim.Initial, lim.Maximum)
	}
	return fmt.Sprintf("%d", lim.Initial)
}

func (lim *ResizableLimits) UnmarshalWASM(r io.Reader) error {
	flags, err := readByte(r)
	if err != nil {
		return err
	}
	if flags > 1 {
		return InvalidLimitsFlagError(flags)
	}
	lim.Flags = flags

	if lim.Initial, err = leb128.ReadVarUint32(r); err != nil {
		return err
	}
	if lim.HasMaximum() {
		lim.Maximum, err = leb128.ReadVarUint32(r)
	}
	return err
}

// ElemType describes the type of a table's elements
type ElemType byte

// ElemTypeAnyFunc descibres an any_func value
const ElemTypeAnyFunc ElemType = 0x70

type InvalidElemTypeError byte

func (e InvalidElemTypeError) Error() string {
	return fmt.Sprintf("wasm: invalid table element type 0x%x", byte(e))
}

func (t ElemType) String() string {
	if t == ElemTypeAnyFunc {
		return "funcref"
	}
	return "<unknown elem_type>"
}

func (t *ElemType) UnmarshalWASM(r io.Reader) error {
	b, err := readByte(r)
	if err != nil {
		return err
	}
	if ElemType(b) != ElemTypeAnyFunc {
		return InvalidElemTypeError(b)
	}
	*t = ElemType(b)
	return nil
}

// Table describes a table in a Wasm module.
type Table struct {
	// The type of elements
	ElementType ElemType
	Limits      ResizableLimits
}

func (t Table) String() string {
	return fmt.Sprintf("(table %v %v)", t.Limits, t.ElementType)
}

func (t *Table) UnmarshalWASM(r io.Reader) error {
	if err := t.ElementType.UnmarshalWASM(r); err != nil {
		return err
	}
	return t.Limits.UnmarshalWASM(r)
}

// Memory describes a linear memory in a Wasm module.
type Memory struct {
	Limits ResizableLimits
}

func (m Memory) String() string {
	return fmt.Sprintf("(memory %v)", m.Limits)
}

func (m *Memory) UnmarshalWASM(r io.Reader) error {
	return m.Limits.UnmarshalWASM(r)
}

type InvalidMutabilityError byte

func (e InvalidMutabilityError) Error() string {
	return fmt.Sprintf("wasm: invalid global mutability flag 0x%x", byte(e))
}

// GlobalVar describes the type and mutability of a declared global variable
type GlobalVar struct {
	Type    ValueType // Type of the value stored by the variable
	Mutable bool      // Whether the value of the variable can be changed by the set_global operator
}

func (g GlobalVar) String() string {
	if g.Mutable {
		return fmt.Sprintf("(mut %v)", g.Type)
	}
	return g.Type.String()
}

func (g *GlobalVar) UnmarshalWASM(r io.Reader) error {
	*g = GlobalVar{}

	if err := g.Type.UnmarshalWASM(r); err != nil {
		return err
	}

	m, err := readByte(r)
	if err != nil {
		return err
	}
	switch m {
	case 0:
	case 1:
		g.Mutable = true
	default:
		return InvalidMutabilityError(m)
	}
	return nil
}

type InvalidExternalError uint8

func (e InvalidExternalError) Error() string {
	return fmt.Sprintf("wasm: invalid external_kind value %d", uint8(e))
}

// External describes the kind of the entry being imported or exported.
type External uint8

const (
	ExternalFunction External = 0
	ExternalTable    External = 1
	ExternalMemory   External = 2
	ExternalGlobal   External = 3
)

func (e External) String() string {
	switch e {
	case ExternalFunction:
		return "function"
	case ExternalTable:
		return "table"
	case ExternalMemory:
		return "memory"
	case ExternalGlobal:
		return "global"
	default:
		return "<unknown external_kind>"
	}
}

func (e *External) UnmarshalWASM(r io.Reader) error {
	b, err := readByte(r)
	if err != nil {
		return err
	}
	if b > byte(ExternalGlobal) {
		return InvalidExternalError(b)
	}
	*e = External(b)
	return nil
}
