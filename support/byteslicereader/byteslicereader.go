// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package byteslicereader offers R, a slice-backed reader with zero-copy
// access to its contents.
//
// File records are staged into memory one record at a time before being
// parsed. Parsing wants to hand sub-regions of that staging buffer (the
// name suffix, the counter vectors) to decoders without copying; R's Next
// returns slices of the backing buffer directly.
//
// The returned slices alias the backing buffer: they are valid only as
// long as the buffer is, and must be copied by anything that outlives it.
package byteslicereader

import (
	"io"
)

// R reads from a byte slice, tracking a position within it.
//
// R satisfies io.Reader and io.ByteReader, so binary decoders can consume
// it directly; Next exposes the zero-copy path. Copying an R snapshots its
// position.
type R struct {
	// Buffer is the backing buffer for this reader.
	Buffer []byte

	pos int
}

var _ interface {
	io.Reader
	io.ByteReader
} = (*R)(nil)

func (r *R) remainingSlice() []byte {
	if r.pos >= len(r.Buffer) {
		return nil
	}
	return r.Buffer[r.pos:]
}

// Remaining returns the number of unread bytes.
func (r *R) Remaining() int { return len(r.remainingSlice()) }

// Read implements io.Reader, copying data out of the buffer.
func (r *R) Read(b []byte) (amt int, err error) {
	amt = copy(b, r.remainingSlice())
	r.pos += amt
	if r.pos >= len(r.Buffer) {
		err = io.EOF
	}
	return
}

// ReadByte implements io.ByteReader.
func (r *R) ReadByte() (byte, error) {
	if r.pos >= len(r.Buffer) {
		return 0, io.EOF
	}

	b := r.Buffer[r.pos]
	r.pos++
	return b, nil
}

// Next returns the next n bytes as a slice of the backing buffer,
// advancing past them.
//
// If fewer than n bytes remain, Next returns what it can alongside
// io.EOF. Next never returns an error when all requested bytes are
// delivered.
func (r *R) Next(n int) (v []byte, err error) {
	v = r.remainingSlice()
	if n <= len(v) {
		v = v[:n]
	} else {
		err = io.EOF
	}

	r.pos += len(v)
	return
}
