// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package zstream provides read access to a log's byte stream regardless
// of its container codec.
//
// Logs are stored raw, gzip-compressed, or snappy-framed depending on the
// collector's configuration, and the log itself does not declare which.
// Open sniffs the codec from the leading magic bytes and presents the
// decompressed stream behind a uniform reader with offset tracking and
// emulated seeking.
package zstream

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/danjacques/gojoblog/support/dataio"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Large buffer size (256KiB), good for streaming a log file.
const streamBufferSize = 256 * 1024

var (
	// ErrTruncated is returned when the decompressed stream ends before a
	// required read completes.
	ErrTruncated = errors.New("log stream is truncated")

	// ErrContainer is returned by Open when the leading bytes announce a
	// codec whose container then fails to parse.
	ErrContainer = errors.New("malformed container")
)

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	snappyMagic = []byte{0xff, 0x06, 0x00, 0x00, 0x73, 0x4e, 0x61, 0x50, 0x70, 0x59}
)

// Codec identifies the container codec of a log's byte stream.
type Codec int

// Known container codecs. Raw is the fallback when no magic matches.
const (
	Raw Codec = iota
	Gzip
	Snappy
)

func (c Codec) String() string {
	switch c {
	case Raw:
		return "raw"
	case Gzip:
		return "gzip"
	case Snappy:
		return "snappy"
	default:
		return "unknown"
	}
}

// Reader reads a log's decompressed byte stream.
//
// A Reader belongs to a single logical reader and performs no internal
// locking.
type Reader struct {
	f     *os.File
	codec Codec

	// Decompressed stream offset.
	offset int64

	// Currently connected to the source reader.
	cur dataio.Reader

	br      *bufio.Reader
	snappyR *snappy.Reader
	gzipR   *gzip.Reader
}

var _ dataio.Reader = (*Reader)(nil)

// Open opens the log file at path and connects the sniffed codec.
//
// Failures to access the file surface the wrapped environment error
// (os.ErrNotExist, os.ErrPermission). A recognized container that fails
// to parse is reported as ErrContainer.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %q", path)
	}

	r := Reader{
		f:  f,
		br: bufio.NewReaderSize(f, streamBufferSize),
	}
	if r.codec, err = sniffCodec(r.br); err == nil {
		err = r.reset()
	}
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &r, nil
}

// sniffCodec identifies the container codec from the stream's leading
// bytes, without consuming them.
func sniffCodec(br *bufio.Reader) (Codec, error) {
	leading, err := br.Peek(len(snappyMagic))
	if err != nil && err != io.EOF {
		return Raw, errors.Wrap(err, "sniffing container codec")
	}

	switch {
	case bytes.HasPrefix(leading, gzipMagic):
		return Gzip, nil
	case bytes.HasPrefix(leading, snappyMagic):
		return Snappy, nil
	default:
		return Raw, nil
	}
}

// reset rewinds the underlying file and reconnects the codec, leaving the
// Reader positioned at decompressed offset 0.
func (r *Reader) reset() error {
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "rewinding container")
	}
	r.br.Reset(r.f)

	switch r.codec {
	case Snappy:
		if r.snappyR == nil {
			r.snappyR = snappy.NewReader(r.br)
		} else {
			r.snappyR.Reset(r.br)
		}
		r.cur = dataio.MakeReader(r.snappyR)

	case Gzip:
		if r.gzipR == nil {
			gz, err := gzip.NewReader(r.br)
			if err != nil {
				return errors.Wrapf(ErrContainer, "opening gzip container: %v", err)
			}
			r.gzipR = gz
		} else {
			if err := r.gzipR.Reset(r.br); err != nil {
				return errors.Wrapf(ErrContainer, "resetting gzip container: %v", err)
			}
		}
		r.cur = dataio.MakeReader(r.gzipR)

	case Raw:
		r.cur = r.br

	default:
		return errors.Errorf("unknown codec: %s", r.codec)
	}

	r.offset = 0
	return nil
}

// Codec returns the sniffed container codec.
func (r *Reader) Codec() Codec { return r.codec }

// Offset returns the current decompressed stream offset.
func (r *Reader) Offset() int64 { return r.offset }

// Read implements io.Reader over the decompressed stream.
func (r *Reader) Read(b []byte) (int, error) {
	amt, err := r.cur.Read(b)
	r.offset += int64(amt)
	return amt, err
}

// ReadByte implements io.ByteReader over the decompressed stream.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.cur.ReadByte()
	if err == nil {
		r.offset++
	}
	return b, err
}

// ReadFull fills buf from the decompressed stream.
//
// Log layouts are fixed-size, so a stream that cannot fill a required
// region is damaged: both a clean end of stream and an end mid-buffer are
// reported as ErrTruncated.
func (r *Reader) ReadFull(buf []byte) error {
	switch err := dataio.ReadFull(r, buf); err {
	case nil:
		return nil
	case io.EOF, io.ErrUnexpectedEOF:
		return errors.Wrapf(ErrTruncated, "short read at decompressed offset %d", r.offset)
	default:
		return err
	}
}

// Seek repositions the decompressed stream.
//
// The container codecs cannot random-access, so seeking is emulated:
// forward seeks discard decompressed bytes, and backward seeks rewind the
// underlying file, reset the codec, and discard forward from the start.
// io.SeekEnd is not supported; the decompressed length is unknown until
// the stream has been fully read.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = r.offset + offset
	case io.SeekEnd:
		return r.offset, errors.New("cannot seek relative to stream end")
	default:
		return r.offset, errors.Errorf("invalid whence value %d", whence)
	}

	switch {
	case target < 0:
		return r.offset, errors.Errorf("cannot seek to negative offset %d", target)
	case target == r.offset:
		return r.offset, nil
	case target < r.offset:
		if err := r.reset(); err != nil {
			return r.offset, err
		}
	}

	if _, err := io.CopyN(io.Discard, r, target-r.offset); err != nil {
		if err == io.EOF {
			err = errors.Wrapf(ErrTruncated, "seeking to decompressed offset %d", target)
		}
		return r.offset, err
	}
	return r.offset, nil
}

// Close releases the underlying file.
//
// Close must be called exactly once; the Reader must not be used
// afterwards.
func (r *Reader) Close() error {
	return errors.Wrap(r.f.Close(), "closing log file")
}
