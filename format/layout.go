// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

// Layout describes the per-version shape of a log's records.
//
// Layouts are shared read-only values obtained from LayoutFor; they are
// never constructed by callers.
type Layout struct {
	// Tag is the version this layout decodes.
	Tag VersionTag

	// JobHeaderSize is the byte size of the job header that follows the
	// version tag.
	JobHeaderSize int

	// HasModuleTags records whether file records carry a module type
	// tag. Versions without one log POSIX activity only.
	HasModuleTags bool

	// ExeFixedSize is the byte size of the fixed NUL-padded executable
	// region, for versions that use one. Zero when the executable record
	// is length-prefixed instead.
	ExeFixedSize int

	// ExeCeiling is the capture ceiling of the length-prefixed
	// executable record. A declared length above it is a format error;
	// a length equal to it means the capture was cut off.
	ExeCeiling int

	// HasMountTable records whether a mount table follows the executable
	// record.
	HasMountTable bool
}

// Modules returns the module types this version can log, in schema
// order.
func (l *Layout) Modules() []ModuleType {
	schemas := SchemasFor(l.Tag)
	modules := make([]ModuleType, len(schemas))
	for i, s := range schemas {
		modules[i] = s.Module
	}
	return modules
}

// MaxRecordSize returns the largest file record size any of this
// version's modules can produce.
func (l *Layout) MaxRecordSize() int {
	max := 0
	for _, s := range SchemasFor(l.Tag) {
		if v := l.recordPreludeSize() + s.CounterBlockSize(); v > max {
			max = v
		}
	}
	return max
}
