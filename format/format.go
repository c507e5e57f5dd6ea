// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	"github.com/pkg/errors"
)

// jobMagic is the constant leading every job header: the ASCII bytes
// "joblog" NUL-padded to eight bytes, read little-endian.
const jobMagic uint64 = 0x0000676F6C626F6A

var (
	// ErrFormat is returned when a log's bytes are structurally invalid
	// for their declared version.
	ErrFormat = errors.New("structurally invalid log")

	// ErrUnsupportedVersion is returned when a log declares a well-formed
	// version tag that this reader has no layout for.
	ErrUnsupportedVersion = errors.New("unsupported log version")
)

// Source is the decompressed byte stream a log is decoded from.
//
// *zstream.Reader satisfies Source. ReadFull must fill buf completely or
// fail with the stream's truncation error; decoders never accept short
// reads.
type Source interface {
	ReadFull(buf []byte) error
}
