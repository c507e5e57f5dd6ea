// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Executable is a log's decoded command line record.
type Executable struct {
	// Command is the captured command line.
	Command string

	// Truncated is true when the capture hit the collector's ceiling and
	// Command is incomplete.
	Truncated bool
}

// ReadExe reads the executable record that follows the last file record.
func (l *Layout) ReadExe(src Source) (*Executable, error) {
	if l.ExeFixedSize > 0 {
		return readExeFixed(src, l.ExeFixedSize)
	}
	return readExePrefixed(src, l.ExeCeiling)
}

func readExeFixed(src Source, size int) (*Executable, error) {
	region := make([]byte, size)
	if err := src.ReadFull(region); err != nil {
		return nil, errors.Wrap(err, "reading executable region")
	}

	// A NUL terminates the command. A region with no NUL was filled to
	// the brim by the collector, cutting the command off.
	if i := bytes.IndexByte(region, 0); i >= 0 {
		return &Executable{Command: string(region[:i])}, nil
	}
	return &Executable{Command: string(region), Truncated: true}, nil
}

func readExePrefixed(src Source, ceiling int) (*Executable, error) {
	var lenBuf [4]byte
	if err := src.ReadFull(lenBuf[:]); err != nil {
		return nil, errors.Wrap(err, "reading executable length")
	}
	n := int(binary.LittleEndian.Uint32(lenBuf[:]))
	if n > ceiling {
		return nil, errors.Wrapf(ErrFormat, "executable length %d exceeds ceiling %d", n, ceiling)
	}

	cmd := make([]byte, n)
	if err := src.ReadFull(cmd); err != nil {
		return nil, errors.Wrap(err, "reading executable")
	}
	return &Executable{
		Command:   string(cmd),
		Truncated: n == ceiling,
	}, nil
}
