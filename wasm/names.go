// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"bytes"
	"io"

	"go.uber.org/zap"

	"github.com/r-james-dev/wasmpy/wasm/leb128"
)

// A list of well-known custom sections
const (
	CustomSectionName = "name"
)

// NameType is the type of name subsection.
type NameType byte

const (
	NameModule   = NameType(0)
	NameFunction = NameType(1)
	NameLocal    = NameType(2)
)

// NameMetadata holds the debug names of a module. A nil field means the
// corresponding subsection was absent or could not be decoded.
type NameMetadata struct {
	ModuleName    *string
	FunctionNames map[uint32]string
	LocalNames    map[uint32]map[uint32]string
}

// FunctionName returns the debug name of the function with the given index.
func (n *NameMetadata) FunctionName(index uint32) (string, bool) {
	name, ok := n.FunctionNames[index]
	return name, ok
}

// LocalName returns the debug name of a local of the given function.
func (n *NameMetadata) LocalName(funcIndex, localIndex uint32) (string, bool) {
	name, ok := n.LocalNames[funcIndex][localIndex]
	return name, ok
}

// extractNames decodes the first custom section named "name" and returns the
// remaining custom sections. Each subsection is decoded from its own bounded
// payload, so a malformed subsection only discards its own field.
func extractNames(customs []*SectionCustom, logger *zap.Logger) (NameMetadata, []*SectionCustom) {
	var names NameMetadata

	index := -1
	for i, s := range customs {
		if s.Name == CustomSectionName {
			index = i
			break
		}
	}
	if index == -1 {
		return names, customs
	}

	r := bytes.NewReader(customs[index].Data)
	seen := map[NameType]bool{}
	for {
		tag, err := r.ReadByte()
		if err != nil {
			break
		}
		size, err := leb128.ReadVarUint32(r)
		if err != nil {
			logger.Debug("malformed name subsection header", zap.Uint8("tag", tag), zap.Error(err))
			break
		}
		payload, err := readBytes(r, size)
		if err != nil {
			logger.Debug("truncated name subsection", zap.Uint8("tag", tag), zap.Uint32("size", size))
			break
		}

		typ := NameType(tag)
		if seen[typ] {
			continue
		}
		seen[typ] = true

		sub := bytes.NewReader(payload)
		switch typ {
		case NameModule:
			var name string
			name, err = readName(sub)
			if err == nil && sub.Len() == 0 {
				names.ModuleName = &name
			}
		case NameFunction:
			var m map[uint32]string
			m, err = readNameMap(sub)
			if err == nil && sub.Len() == 0 {
				names.FunctionNames = m
			}
		case NameLocal:
			var m map[uint32]map[uint32]string
			m, err = readIndirectNameMap(sub)
			if err == nil && sub.Len() == 0 {
				names.LocalNames = m
			}
		default:
			logger.Debug("skipping unknown name subsection", zap.Uint8("tag", tag))
			continue
		}
		if err != nil || sub.Len() != 0 {
			logger.Debug("discarding malformed name subsection",
				zap.Uint8("tag", tag), zap.Int("trailing", sub.Len()), zap.Error(err))
		}
	}

	rest := make([]*SectionCustom, 0, len(customs)-1)
	rest = append(rest, customs[:index]...)
	rest = append(rest, customs[index+1:]...)
	return names, rest
}

func readNameMap(r io.Reader) (map[uint32]string, error) {
	size, err := leb128.ReadVarUint32(r)
	if err != nil {
		return nil, err
	}

	nameMap := make(map[uint32]string, getInitialCap(size))
	for i := uint32(0); i < size; i++ {
		index, err := leb128.ReadVarUint32(r)
		if err != nil {
			return nil, err
		}
		name, err := readName(r)
		if err != nil {
			return nil, err
		}
		nameMap[index] = name
	}
	return nameMap, nil
}

func readIndirectNameMap(r io.Reader) (map[uint32]map[uint32]string, error) {
	size, err := leb128.ReadVarUint32(r)
	if err != nil {
		return nil, err
	}

	funcs := make(map[uint32]map[uint32]string, getInitialCap(size))
	for i := uint32(0); i < size; i++ {
		index, err := leb128.ReadVarUint32(r)
		if err != nil {
			return nil, err
		}
		names, err := readNameMap(r)
		if err != nil {
			return nil, err
		}
		funcs[index] = names
	}
	return funcs, nil
}
