// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package leb128 provides functions for reading integer values encoded in the
// Little Endian Base 128 (LEB128) format: https://en.wikipedia.org/wiki/LEB128
package leb128

import (
	"errors"
	"io"
)

// ErrOverflow is returned when an encoding uses more bytes or bits than the
// requested width allows.
var ErrOverflow = errors.New("leb128: integer representation too long")

func readByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var b [1]byte
	_, err := io.ReadFull(r, b[:])
	return b[0], err
}

// ReadVarUint reads an unsigned LEB128 integer that must fit in n bits, where
// n is at most 64. The error is io.EOF if r was already exhausted and
// io.ErrUnexpectedEOF if r ended in the middle of the encoding.
func ReadVarUint(r io.Reader, n uint) (uint64, error) {
	if n == 0 || n > 64 {
		panic("leb128: invalid bit width")
	}

	var res uint64
	var shift uint
	for i := 0; ; i++ {
		b, err := readByte(r)
		if err != nil {
			if err == io.EOF && i > 0 {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}

		payload := uint64(b & 0x7f)
		if rest := n - shift; rest < 7 {
			if b&0x80 != 0 || payload>>rest != 0 {
				return 0, ErrOverflow
			}
		}
		res |= payload << shift
		if b&0x80 == 0 {
			return res, nil
		}

		shift += 7
		if shift >= n {
			return 0, ErrOverflow
		}
	}
}

// ReadVarint reads a signed LEB128 integer that must fit in n bits, where n
// is at most 64. EOF handling matches ReadVarUint.
func ReadVarint(r io.Reader, n uint) (int64, error) {
	if n == 0 || n > 64 {
		panic("leb128: invalid bit width")
	}

	var res int64
	var shift uint
	for i := 0; ; i++ {
		b, err := readByte(r)
		if err != nil {
			if err == io.EOF && i > 0 {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}

		if rest := n - shift; rest < 7 {
			// The last byte may only carry sign extension above bit rest-1.
			v := int64(int8(b<<1) >> 1)
			if b&0x80 != 0 || (v>>(rest-1) != 0 && v>>(rest-1) != -1) {
				return 0, ErrOverflow
			}
		}

		res |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				res |= ^int64(0) << shift
			}
			return res, nil
		}
		if shift >= n {
			return 0, ErrOverflow
		}
	}
}

// ReadVarUint32 reads a LEB128 encoded unsigned 32-bit integer from r.
func ReadVarUint32(r io.Reader) (uint32, error) {
	n, err := ReadVarUint(r, 32)
	return uint32(n), err
}

// ReadVarUint64 reads a LEB128 encoded unsigned 64-bit integer from r.
func ReadVarUint64(r io.Reader) (uint64, error) {
	return ReadVarUint(r, 64)
}

// ReadVarint32 reads a LEB128 encoded signed 32-bit integer from r.
func ReadVarint32(r io.Reader) (int32, error) {
	n, err := ReadVarint(r, 32)
	return int32(n), err
}

// ReadVarint33 reads a LEB128 encoded signed 33-bit integer, the encoding
// used for block type indices.
func ReadVarint33(r io.Reader) (int64, error) {
	return ReadVarint(r, 33)
}

// ReadVarint64 reads a LEB128 encoded signed 64-bit integer from r.
func ReadVarint64(r io.Reader) (int64, error) {
	return ReadVarint(r, 64)
}
