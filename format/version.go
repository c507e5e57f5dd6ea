// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	"github.com/danjacques/gojoblog/support/fmtutil"

	"github.com/pkg/errors"
)

// VersionTagSize is the fixed byte width of the version tag that leads
// every log, for every past and future format version.
const VersionTagSize = 8

// VersionTag is a log format version, the "MAJOR.MINOR" text of its
// on-disk tag.
type VersionTag string

// Log format versions this reader knows.
const (
	// Version08 is the oldest version still in circulation. It predates
	// module tags; its logs hold POSIX records only.
	Version08 = VersionTag("0.8")

	// Version09 introduced module-tagged file records and the job
	// metadata region.
	Version09 = VersionTag("0.9")

	// Version10 is the current version. It added the mount table and
	// widened the metadata region.
	Version10 = VersionTag("1.0")

	// CurrentVersion is the version written by current collectors.
	CurrentVersion = Version10
)

// Classification buckets a version tag by how this reader can treat it.
type Classification int

const (
	// ClassUnsupported marks versions this reader cannot decode,
	// including versions newer than it knows.
	ClassUnsupported Classification = iota

	// ClassSupportedLegacy marks old versions that still decode, with a
	// compatibility advisory.
	ClassSupportedLegacy

	// ClassCurrent marks the current version.
	ClassCurrent
)

func (c Classification) String() string {
	switch c {
	case ClassUnsupported:
		return "unsupported"
	case ClassSupportedLegacy:
		return "supported-legacy"
	case ClassCurrent:
		return "current"
	default:
		return "unknown"
	}
}

type versionInfo struct {
	class  Classification
	layout *Layout
}

// versionTable is the full set of versions this reader decodes. It is
// built once and never mutated.
var versionTable = map[VersionTag]versionInfo{
	Version08: {ClassSupportedLegacy, &Layout{
		Tag:           Version08,
		JobHeaderSize: 56,
		ExeFixedSize:  1024,
	}},

	Version09: {ClassSupportedLegacy, &Layout{
		Tag:           Version09,
		JobHeaderSize: 128,
		HasModuleTags: true,
		ExeCeiling:    4096,
	}},

	Version10: {ClassCurrent, &Layout{
		Tag:           Version10,
		JobHeaderSize: 192,
		HasModuleTags: true,
		ExeCeiling:    4096,
		HasMountTable: true,
	}},
}

// ParseVersionTag validates and extracts the version tag from a log's
// leading bytes.
//
// A valid tag is ASCII "MAJOR.MINOR", both decimal digit runs, with NULs
// only as trailing padding. Anything else is a format error; the tag is
// never classified.
func ParseVersionTag(raw []byte) (VersionTag, error) {
	end := len(raw)
	for end > 0 && raw[end-1] == 0 {
		end--
	}
	tag := raw[:end]
	if !validTagShape(tag) {
		return "", errors.Wrapf(ErrFormat, "malformed version tag %s", fmtutil.HexSlice(raw))
	}
	return VersionTag(tag), nil
}

func validTagShape(tag []byte) bool {
	dot := -1
	for i, b := range tag {
		switch {
		case b >= '0' && b <= '9':
		case b == '.' && dot < 0:
			dot = i
		default:
			return false
		}
	}
	// The dot must split two non-empty digit runs.
	return dot > 0 && dot < len(tag)-1
}

// Classify reports how this reader relates to the given version.
//
// Classify is a pure function of its input. Unknown tags, including
// versions newer than this reader, classify as ClassUnsupported.
func Classify(tag VersionTag) Classification {
	return versionTable[tag].class
}

// LayoutFor returns the layout descriptor for the given version.
//
// The returned Layout is shared and read-only.
func LayoutFor(tag VersionTag) (*Layout, error) {
	vi, ok := versionTable[tag]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "no layout for version %q", tag)
	}
	return vi.layout, nil
}
