// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMagic   = errors.New("wasm: magic header not detected")
	ErrInvalidVersion = errors.New("wasm: unknown binary version")
	ErrTooManyLocals  = errors.New("wasm: too many locals")
)

// MalformedSectionError wraps any error that occurs while decoding the payload
// of a section. Offset is the position of the payload in the input.
type MalformedSectionError struct {
	ID     SectionID
	Offset int64
	Err    error
}

func (e *MalformedSectionError) Error() string {
	return fmt.Sprintf("wasm: malformed %v section at offset %d: %v", e.ID, e.Offset, e.Err)
}

func (e *MalformedSectionError) Unwrap() error {
	return e.Err
}

// SectionLengthError is returned when a section decoder consumes a different
// number of bytes than the section declares.
type SectionLengthError struct {
	Declared uint32
	Consumed int64
}

func (e SectionLengthError) Error() string {
	return fmt.Sprintf("wasm: section size mismatch: declared %d, consumed %d", e.Declared, e.Consumed)
}

// FunctionBodySizeError is returned when a function body in the code section
// does not occupy exactly the number of bytes given by its size prefix.
type FunctionBodySizeError struct {
	Index    uint32
	Declared uint32
	Consumed int64
}

func (e FunctionBodySizeError) Error() string {
	return fmt.Sprintf("wasm: function body %d size mismatch: declared %d, consumed %d", e.Index, e.Declared, e.Consumed)
}

type InvalidSectionIDError SectionID

func (e InvalidSectionIDError) Error() string {
	return fmt.Sprintf("wasm: invalid section id %d", uint8(e))
}

// FunctionCodeMismatchError is returned when the function and code sections
// declare a different number of functions.
type FunctionCodeMismatchError struct {
	Functions int
	Bodies    int
}

func (e FunctionCodeMismatchError) Error() string {
	return fmt.Sprintf("wasm: function and code section have inconsistent lengths (%d and %d)", e.Functions, e.Bodies)
}

// InvalidTypeIndexError is returned when a locally defined function refers to
// a type index outside the type section.
type InvalidTypeIndexError struct {
	Function uint32
	Type     uint32
}

func (e InvalidTypeIndexError) Error() string {
	return fmt.Sprintf("wasm: function %d refers to unknown type %d", e.Function, e.Type)
}

// ValidationError is returned by validate.ValidateModule for a module that
// decodes but refers to entries that do not exist.
type ValidationError string

func (e ValidationError) Error() string {
	return "wasm: " + string(e)
}
