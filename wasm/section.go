// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasm

import (
	"bytes"
	"io"

	"go.uber.org/zap"

	"github.com/r-james-dev/wasmpy/wasm/code"
	"github.com/r-james-dev/wasmpy/wasm/internal/readpos"
	"github.com/r-james-dev/wasmpy/wasm/leb128"
)

// SectionID is a 1-byte code that encodes the section code of both known and custom sections.
type SectionID uint8

const (
	SectionIDCustom   SectionID = 0
	SectionIDType     SectionID = 1
	SectionIDImport   SectionID = 2
	SectionIDFunction SectionID = 3
	SectionIDTable    SectionID = 4
	SectionIDMemory   SectionID = 5
	SectionIDGlobal   SectionID = 6
	SectionIDExport   SectionID = 7
	SectionIDStart    SectionID = 8
	SectionIDElement  SectionID = 9
	SectionIDCode     SectionID = 10
	SectionIDData     SectionID = 11
)

var sectionNames = [...]string{
	SectionIDCustom:   "custom",
	SectionIDType:     "type",
	SectionIDImport:   "import",
	SectionIDFunction: "function",
	SectionIDTable:    "table",
	SectionIDMemory:   "memory",
	SectionIDGlobal:   "global",
	SectionIDExport:   "export",
	SectionIDStart:    "start",
	SectionIDElement:  "element",
	SectionIDCode:     "code",
	SectionIDData:     "data",
}

func (s SectionID) String() string {
	if int(s) < len(sectionNames) {
		return sectionNames[s]
	}
	return "unknown"
}

// RawSection records the position of a decoded section's payload in the input.
type RawSection struct {
	ID    SectionID
	Start int64
	End   int64
}

// Size returns the length of the section payload.
func (s RawSection) Size() int64 {
	return s.End - s.Start
}

// SectionCustom is a custom section. Its payload is kept as opaque bytes.
type SectionCustom struct {
	RawSection
	Name string
	Data []byte
}

// GlobalEntry declares a global variable.
type GlobalEntry struct {
	Type GlobalVar // Type holds information about the value type and mutability of the variable
	Init code.Expr // Init is an initializer expression that computes the initial value of the variable
}

func (g *GlobalEntry) UnmarshalWASM(r io.Reader) error {
	err := g.Type.UnmarshalWASM(r)
	if err != nil {
		return err
	}
	g.Init, err = code.DecodeExpr(r)
	return err
}

// ExportEntry represents an exported entry by the module
type ExportEntry struct {
	FieldStr string
	Kind     External
	Index    uint32 // The index into the combined index space of Kind.

	// Imported is true if Index refers to an imported entry.
	Imported bool
}

func (e *ExportEntry) UnmarshalWASM(r io.Reader) error {
	var err error
	e.FieldStr, err = readName(r)
	if err != nil {
		return err
	}

	if err := e.Kind.UnmarshalWASM(r); err != nil {
		return err
	}

	e.Index, err = leb128.ReadVarUint32(r)
	return err
}

// ElementSegment describes a group of repeated elements that begin at a specified offset
type ElementSegment struct {
	Index  uint32    // The index into the global table space, should always be 0 in the MVP.
	Offset code.Expr // initializer expression for computing the offset for placing elements, should return an i32 value
	Elems  []uint32
}

func (s *ElementSegment) UnmarshalWASM(r io.Reader) error {
	var err error

	if s.Index, err = leb128.ReadVarUint32(r); err != nil {
		return err
	}
	if s.Offset, err = code.DecodeExpr(r); err != nil {
		return err
	}

	numElems, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}
	s.Elems = make([]uint32, 0, getInitialCap(numElems))
	for i := uint32(0); i < numElems; i++ {
		e, err := leb128.ReadVarUint32(r)
		if err != nil {
			return err
		}
		s.Elems = append(s.Elems, e)
	}
	return nil
}

// DataSegment describes a group of repeated elements that begin at a specified offset in the linear memory
type DataSegment struct {
	Index  uint32    // The index into the global linear memory space, should always be 0 in the MVP.
	Offset code.Expr // initializer expression for computing the offset for placing elements, should return an i32 value
	Data   []byte
}

func (s *DataSegment) UnmarshalWASM(r io.Reader) error {
	var err error

	if s.Index, err = leb128.ReadVarUint32(r); err != nil {
		return err
	}
	if s.Offset, err = code.DecodeExpr(r); err != nil {
		return err
	}
	s.Data, err = readBytesUint(r)
	return err
}

// maxLocals bounds the total number of locals declared by a single function body.
const maxLocals = 50000

// functionBody is an entry of the code section before it is paired with its signature.
type functionBody struct {
	Locals []ValueType
	Code   code.Expr
}

func (f *functionBody) unmarshal(r *readpos.ReadPos, index uint32) error {
	bodySize, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}
	start := r.CurPos

	groups, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}

	var total uint64
	f.Locals = make([]ValueType, 0, getInitialCap(groups))
	for i := uint32(0); i < groups; i++ {
		count, err := leb128.ReadVarUint32(r)
		if err != nil {
			return err
		}
		total += uint64(count)
		if total > maxLocals {
			return ErrTooManyLocals
		}

		var t ValueType
		if err = t.UnmarshalWASM(r); err != nil {
			return err
		}
		for j := uint32(0); j < count; j++ {
			f.Locals = append(f.Locals, t)
		}
	}

	if f.Code, err = code.DecodeExpr(r); err != nil {
		return err
	}

	if consumed := r.CurPos - start; consumed != int64(bodySize) {
		return FunctionBodySizeError{Index: index, Declared: bodySize, Consumed: consumed}
	}
	return nil
}

// sectionsReader holds the state of a single decode: the module under
// construction, the section order, and the intermediate results that are only
// folded into the module once every section has been read.
type sectionsReader struct {
	m      *Module
	order  sectionOrder
	logger *zap.Logger

	funcTypes []uint32
	bodies    []functionBody
	hasCode   bool
}

func newSectionsReader(m *Module, logger *zap.Logger) *sectionsReader {
	return &sectionsReader{m: m, order: newSectionOrder(), logger: logger}
}

func (s *sectionsReader) readSections(r *readpos.ReadPos) error {
	for {
		done, err := s.readSection(r)
		switch {
		case err != nil:
			return err
		case done:
			return nil
		}
	}
}

// reads a section from r. The first return value is true if scanning should
// stop: at the end of the input, at a truncated section, or at a section that
// is out of order.
func (s *sectionsReader) readSection(r *readpos.ReadPos) (bool, error) {
	offset := r.CurPos
	id, err := r.ReadByte()
	if err != nil {
		if isEOF(err) {
			return true, nil
		}
		return false, err
	}
	if id > uint8(SectionIDData) {
		return false, InvalidSectionIDError(id)
	}
	if !s.order.accept(SectionID(id)) {
		s.logger.Debug("section out of order, ignoring remaining input",
			zap.Stringer("id", SectionID(id)), zap.Int64("offset", offset))
		return true, nil
	}

	size, err := leb128.ReadVarUint32(r)
	if err != nil {
		if isEOF(err) {
			s.logger.Debug("truncated section header", zap.Int64("offset", offset))
			return true, nil
		}
		return false, &MalformedSectionError{ID: SectionID(id), Offset: offset, Err: err}
	}

	raw := RawSection{ID: SectionID(id), Start: r.CurPos}
	payload, err := readBytes(r, size)
	if err != nil {
		if isEOF(err) {
			s.logger.Debug("truncated section payload",
				zap.Stringer("id", raw.ID), zap.Uint32("size", size), zap.Int64("offset", raw.Start))
			return true, nil
		}
		return false, err
	}
	raw.End = r.CurPos

	s.logger.Debug("decoding section",
		zap.Stringer("id", raw.ID), zap.Uint32("size", size), zap.Int64("offset", raw.Start))

	pr := readpos.New(bytes.NewReader(payload))
	if err := s.readPayload(raw, pr); err != nil {
		if isEOF(err) {
			err = io.ErrUnexpectedEOF
		}
		return false, &MalformedSectionError{ID: raw.ID, Offset: raw.Start, Err: err}
	}
	if pr.CurPos != int64(size) {
		return false, &MalformedSectionError{
			ID:     raw.ID,
			Offset: raw.Start,
			Err:    SectionLengthError{Declared: size, Consumed: pr.CurPos},
		}
	}

	s.m.Sections = append(s.m.Sections, raw)
	return false, nil
}

func (s *sectionsReader) readPayload(raw RawSection, r *readpos.ReadPos) error {
	switch raw.ID {
	case SectionIDCustom:
		return s.readCustom(raw, r)
	case SectionIDType:
		return s.readTypes(r)
	case SectionIDImport:
		return s.readImports(r)
	case SectionIDFunction:
		return s.readFunctions(r)
	case SectionIDTable:
		return s.readTables(r)
	case SectionIDMemory:
		return s.readMemories(r)
	case SectionIDGlobal:
		return s.readGlobals(r)
	case SectionIDExport:
		return s.readExports(r, s.m.Offsets)
	case SectionIDStart:
		return s.readStart(r)
	case SectionIDElement:
		return s.readElements(r)
	case SectionIDCode:
		return s.readCode(r)
	default:
		return s.readData(r)
	}
}

func (s *sectionsReader) readCustom(raw RawSection, r io.Reader) error {
	name, err := readName(r)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.logger.Debug("custom section", zap.String("name", name), zap.Int("size", len(data)))
	s.m.Customs = append(s.m.Customs, &SectionCustom{RawSection: raw, Name: name, Data: data})
	return nil
}

func (s *sectionsReader) readTypes(r io.Reader) error {
	count, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}

	s.m.Types = make([]FunctionSig, 0, getInitialCap(count))
	for i := uint32(0); i < count; i++ {
		var sig FunctionSig
		if err := sig.UnmarshalWASM(r); err != nil {
			return err
		}
		s.m.Types = append(s.m.Types, sig)
	}
	return nil
}

func (s *sectionsReader) readImports(r io.Reader) error {
	count, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}

	var offsets IndexSpaceOffsets
	s.m.Imports = make([]ImportEntry, 0, getInitialCap(count))
	for i := uint32(0); i < count; i++ {
		var entry ImportEntry
		if err := entry.UnmarshalWASM(r); err != nil {
			return err
		}
		offsets.add(entry.Type.Kind())
		s.m.Imports = append(s.m.Imports, entry)
	}
	s.m.Offsets = offsets

	s.logger.Debug("import offsets",
		zap.Uint32("func", offsets.Func),
		zap.Uint32("table", offsets.Table),
		zap.Uint32("memory", offsets.Memory),
		zap.Uint32("global", offsets.Global))
	return nil
}

func (s *sectionsReader) readFunctions(r io.Reader) error {
	count, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}
	s.funcTypes = make([]uint32, 0, getInitialCap(count))
	for i := uint32(0); i < count; i++ {
		t, err := leb128.ReadVarUint32(r)
		if err != nil {
			return err
		}
		s.funcTypes = append(s.funcTypes, t)
	}
	return nil
}

func (s *sectionsReader) readTables(r io.Reader) error {
	count, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}

	s.m.Tables = make([]Table, 0, getInitialCap(count))
	for i := uint32(0); i < count; i++ {
		var entry Table
		if err = entry.UnmarshalWASM(r); err != nil {
			return err
		}
		s.m.Tables = append(s.m.Tables, entry)
	}
	return nil
}

func (s *sectionsReader) readMemories(r io.Reader) error {
	count, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}

	s.m.Memories = make([]Memory, 0, getInitialCap(count))
	for i := uint32(0); i < count; i++ {
		var entry Memory
		if err = entry.UnmarshalWASM(r); err != nil {
			return err
		}
		s.m.Memories = append(s.m.Memories, entry)
	}
	return nil
}

func (s *sectionsReader) readGlobals(r io.Reader) error {
	count, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}

	s.m.Globals = make([]GlobalEntry, 0, getInitialCap(count))
	for i := uint32(0); i < count; i++ {
		var global GlobalEntry
		if err = global.UnmarshalWASM(r); err != nil {
			return err
		}
		s.m.Globals = append(s.m.Globals, global)
	}
	return nil
}

func (s *sectionsReader) readExports(r io.Reader, offsets IndexSpaceOffsets) error {
	count, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}

	s.m.Exports = make([]ExportEntry, 0, getInitialCap(count))
	for i := uint32(0); i < count; i++ {
		var entry ExportEntry
		if err = entry.UnmarshalWASM(r); err != nil {
			return err
		}
		entry.Imported = entry.Index < offsets.Of(entry.Kind)
		s.m.Exports = append(s.m.Exports, entry)
	}
	return nil
}

func (s *sectionsReader) readStart(r io.Reader) error {
	index, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}
	s.m.Start = &index
	return nil
}

func (s *sectionsReader) readElements(r io.Reader) error {
	count, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}

	s.m.Elements = make([]ElementSegment, 0, getInitialCap(count))
	for i := uint32(0); i < count; i++ {
		var element ElementSegment
		if err = element.UnmarshalWASM(r); err != nil {
			return err
		}
		s.m.Elements = append(s.m.Elements, element)
	}
	return nil
}

func (s *sectionsReader) readCode(r *readpos.ReadPos) error {
	count, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}

	s.hasCode = true
	s.bodies = make([]functionBody, 0, getInitialCap(count))
	for i := uint32(0); i < count; i++ {
		var body functionBody
		if err = body.unmarshal(r, i); err != nil {
			return err
		}
		s.bodies = append(s.bodies, body)
	}
	s.logger.Debug("function bodies", zap.Uint32("count", count))
	return nil
}

func (s *sectionsReader) readData(r io.Reader) error {
	count, err := leb128.ReadVarUint32(r)
	if err != nil {
		return err
	}

	s.m.Data = make([]DataSegment, 0, getInitialCap(count))
	for i := uint32(0); i < count; i++ {
		var entry DataSegment
		if err = entry.UnmarshalWASM(r); err != nil {
			return err
		}
		s.m.Data = append(s.m.Data, entry)
	}
	return nil
}

// functions pairs the type indices of the function section with the bodies of
// the code section.
func (s *sectionsReader) functions() ([]Function, error) {
	if len(s.bodies) > len(s.funcTypes) || s.hasCode && len(s.bodies) != len(s.funcTypes) {
		return nil, FunctionCodeMismatchError{Functions: len(s.funcTypes), Bodies: len(s.bodies)}
	}

	funcs := make([]Function, 0, len(s.bodies))
	for i, body := range s.bodies {
		typeIndex := s.funcTypes[i]
		if int64(typeIndex) >= int64(len(s.m.Types)) {
			return nil, InvalidTypeIndexError{Function: s.m.Offsets.Func + uint32(i), Type: typeIndex}
		}
		funcs = append(funcs, Function{
			TypeIndex: typeIndex,
			Sig:       s.m.Types[typeIndex],
			Locals:    body.Locals,
			Body:      body.Code,
		})
	}
	return funcs, nil
}

func isEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
