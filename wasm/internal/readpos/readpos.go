// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package readpos provides a forward-only reader that records how many bytes
// have been consumed from the underlying source.
package readpos

import "io"

// ReadPos implements io.Reader and io.ByteReader and stores the current
// number of bytes read from the underlying reader.
type ReadPos struct {
	R      io.Reader
	CurPos int64

	buf [1]byte
}

// New returns a ReadPos positioned at offset 0 of r.
func New(r io.Reader) *ReadPos {
	return &ReadPos{R: r}
}

// Read implements the io.Reader interface.
func (r *ReadPos) Read(p []byte) (int, error) {
	n, err := r.R.Read(p)
	r.CurPos += int64(n)
	return n, err
}

// ReadByte implements the io.ByteReader interface.
func (r *ReadPos) ReadByte() (byte, error) {
	n, err := io.ReadFull(r.R, r.buf[:])
	r.CurPos += int64(n)
	if err != nil {
		return 0, err
	}
	return r.buf[0], nil
}
