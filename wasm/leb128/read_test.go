// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leb128

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var casesUint = []struct {
	v uint32
	b []byte
}{
	{v: 0, b: []byte{0x00}},
	{v: 8, b: []byte{0x08}},
	{v: 127, b: []byte{0x7f}},
	{v: 128, b: []byte{0x80, 0x01}},
	{v: 624485, b: []byte{0xe5, 0x8e, 0x26}},
	{v: 0xffffffff, b: []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
}

var casesInt = []struct {
	v int64
	b []byte
}{
	{v: 0, b: []byte{0x00}},
	{v: -1, b: []byte{0x7f}},
	{v: 63, b: []byte{0x3f}},
	{v: -64, b: []byte{0x40}},
	{v: 64, b: []byte{0xc0, 0x00}},
	{v: -123456, b: []byte{0xc0, 0xbb, 0x78}},
	{v: -9223372036854775808, b: []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x7f}},
}

func TestReadVarUint32(t *testing.T) {
	for _, c := range casesUint {
		t.Run(fmt.Sprint(c.v), func(t *testing.T) {
			n, err := ReadVarUint32(bytes.NewReader(c.b))
			require.NoError(t, err)
			assert.Equal(t, c.v, n)
		})
	}
}

func TestReadVarint64(t *testing.T) {
	for _, c := range casesInt {
		t.Run(fmt.Sprint(c.v), func(t *testing.T) {
			n, err := ReadVarint64(bytes.NewReader(c.b))
			require.NoError(t, err)
			assert.Equal(t, c.v, n)
		})
	}
}

func TestReadVarint32(t *testing.T) {
	n, err := ReadVarint32(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0x7f}))
	require.NoError(t, err)
	assert.Equal(t, int32(-1), n)

	n, err = ReadVarint32(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x78}))
	require.NoError(t, err)
	assert.Equal(t, int32(-2147483648), n)
}

func TestReadVarint33(t *testing.T) {
	n, err := ReadVarint33(bytes.NewReader([]byte{0x40}))
	require.NoError(t, err)
	assert.Equal(t, int64(-64), n)

	n, err = ReadVarint33(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0x0f}))
	require.NoError(t, err)
	assert.Equal(t, int64(0xffffffff), n)
}

func TestReadOverflow(t *testing.T) {
	tests := []struct {
		name string
		read func(io.Reader) error
		b    []byte
	}{
		{
			name: "uint32 too many bytes",
			read: func(r io.Reader) error { _, err := ReadVarUint32(r); return err },
			b:    []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x00},
		},
		{
			name: "uint32 unused bits set",
			read: func(r io.Reader) error { _, err := ReadVarUint32(r); return err },
			b:    []byte{0xff, 0xff, 0xff, 0xff, 0x1f},
		},
		{
			name: "uint7",
			read: func(r io.Reader) error { _, err := ReadVarUint(r, 7); return err },
			b:    []byte{0x80, 0x01},
		},
		{
			name: "int32 bad sign extension",
			read: func(r io.Reader) error { _, err := ReadVarint32(r); return err },
			b:    []byte{0xff, 0xff, 0xff, 0xff, 0x0f},
		},
		{
			name: "int32 negative bad sign extension",
			read: func(r io.Reader) error { _, err := ReadVarint32(r); return err },
			b:    []byte{0x80, 0x80, 0x80, 0x80, 0x70},
		},
		{
			name: "int64 too many bytes",
			read: func(r io.Reader) error { _, err := ReadVarint64(r); return err },
			b:    []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.read(bytes.NewReader(tt.b)), ErrOverflow)
		})
	}
}

func TestReadEOF(t *testing.T) {
	_, err := ReadVarUint32(bytes.NewReader(nil))
	assert.Equal(t, io.EOF, err)

	_, err = ReadVarUint32(bytes.NewReader([]byte{0x80, 0x80}))
	assert.Equal(t, io.ErrUnexpectedEOF, err)

	_, err = ReadVarint64(bytes.NewReader([]byte{0xff}))
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

// plainReader hides the io.ByteReader implementation of bytes.Reader.
type plainReader struct{ r io.Reader }

func (p plainReader) Read(b []byte) (int, error) { return p.r.Read(b) }

func TestReadWithoutByteReader(t *testing.T) {
	n, err := ReadVarUint32(plainReader{bytes.NewReader([]byte{0xe5, 0x8e, 0x26})})
	require.NoError(t, err)
	assert.Equal(t, uint32(624485), n)
}
