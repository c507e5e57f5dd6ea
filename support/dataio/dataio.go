// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package dataio supplies the byte-level reader contract shared by the
// log decoders.
//
// Record decoding mixes whole-buffer reads (counter vectors, name regions)
// with single-byte reads, so the package pins down a Reader that can do
// both and provides adapters for sources that cannot.
package dataio

import (
	"io"
)

// Reader is a byte source that supports both bulk and single-byte reads.
//
// Decompression streams and in-memory record buffers both satisfy Reader
// directly; MakeReader adapts anything else.
type Reader interface {
	io.Reader
	io.ByteReader
}

// MakeReader returns a Reader backed by r, adapting it if necessary.
func MakeReader(r io.Reader) Reader {
	if dr, ok := r.(Reader); ok {
		return dr
	}
	return &byteReader{r}
}

type byteReader struct {
	io.Reader
}

func (r *byteReader) ReadByte() (byte, error) {
	var d [1]byte
	amt, err := r.Read(d[:])
	if amt == 1 {
		return d[0], nil
	}
	if err == nil {
		err = io.ErrNoProgress
	}
	return 0, err
}

// ReadFull reads from r until buf is full, or until an error is
// encountered.
//
// io.Reader may legally return fewer bytes than requested without error;
// record layouts are fixed-size, so decoders must not observe short reads.
// A read that ends exactly at EOF with a full buffer is a success; an EOF
// mid-buffer is returned as io.ErrUnexpectedEOF so callers can distinguish
// truncation from a clean end of stream.
func ReadFull(r io.Reader, buf []byte) error {
	for remaining := buf; len(remaining) > 0; {
		amt, err := r.Read(remaining)
		remaining = remaining[amt:]
		if err != nil {
			if err == io.EOF {
				if len(remaining) == 0 {
					return nil
				}
				if len(remaining) < len(buf) {
					return io.ErrUnexpectedEOF
				}
			}
			return err
		}
	}
	return nil
}
