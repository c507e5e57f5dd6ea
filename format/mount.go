// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Mount table sanity ceilings.
const (
	maxMountEntries  = 1024
	maxMountFieldLen = 4096
)

// Mount is one entry of a log's mount table: a mounted file system the
// job's I/O touched.
type Mount struct {
	// Point is the mount point path.
	Point string

	// FSType is the mounted file system's type name.
	FSType string
}

// ReadMountTable reads the mount table that follows the executable
// record.
//
// Layouts without a mount table yield nil. A present table with no
// entries yields an empty, non-nil slice.
func (l *Layout) ReadMountTable(src Source) ([]Mount, error) {
	if !l.HasMountTable {
		return nil, nil
	}

	var countBuf [4]byte
	if err := src.ReadFull(countBuf[:]); err != nil {
		return nil, errors.Wrap(err, "reading mount table size")
	}
	count := int(binary.LittleEndian.Uint32(countBuf[:]))
	if count > maxMountEntries {
		return nil, errors.Wrapf(ErrFormat, "mount table size %d exceeds ceiling %d", count, maxMountEntries)
	}

	mounts := make([]Mount, count)
	for i := range mounts {
		var err error
		if mounts[i].Point, err = readMountField(src, "mount point"); err != nil {
			return nil, err
		}
		if mounts[i].FSType, err = readMountField(src, "fs type"); err != nil {
			return nil, err
		}
	}
	return mounts, nil
}

func readMountField(src Source, what string) (string, error) {
	var lenBuf [4]byte
	if err := src.ReadFull(lenBuf[:]); err != nil {
		return "", errors.Wrapf(err, "reading %s length", what)
	}
	n := int(binary.LittleEndian.Uint32(lenBuf[:]))
	if n > maxMountFieldLen {
		return "", errors.Wrapf(ErrFormat, "%s length %d exceeds ceiling %d", what, n, maxMountFieldLen)
	}

	field := make([]byte, n)
	if err := src.ReadFull(field); err != nil {
		return "", errors.Wrapf(err, "reading %s", what)
	}
	return string(field), nil
}
