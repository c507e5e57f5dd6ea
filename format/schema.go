// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	_ "embed"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Counter schemas are data, not code: the embedded TOML table is the
// single authority for which counters each (version, module) pair
// records and in what on-disk order.
//
//go:embed schemas.toml
var schemasTOML []byte

// schemaTable maps each version to its module schemas, in the order the
// modules appear in the schema file. Built once at process start.
var schemaTable = mustLoadSchemas(schemasTOML)

// CounterSchema names, in on-disk order, the integer and floating-point
// counters a (version, module) pair records.
type CounterSchema struct {
	// Module is the module type this schema describes.
	Module ModuleType

	// Ints and Floats are the counter names, in the order their values
	// appear in a record's counter block.
	Ints   []string
	Floats []string

	intIndex   map[string]int
	floatIndex map[string]int
}

// CounterBlockSize returns the byte size of this schema's counter block:
// one int64 per integer counter followed by one float64 per
// floating-point counter.
func (s *CounterSchema) CounterBlockSize() int {
	return 8 * (len(s.Ints) + len(s.Floats))
}

// SchemasFor returns the counter schemas for every module the given
// version can log, in on-disk declaration order. The result is shared
// and read-only; unknown versions yield nil.
func SchemasFor(tag VersionTag) []*CounterSchema {
	return schemaTable[tag]
}

// SchemaFor returns the counter schema for a single (version, module)
// pair. The second return is false when the version has no such module.
func SchemaFor(tag VersionTag, m ModuleType) (*CounterSchema, bool) {
	for _, s := range schemaTable[tag] {
		if s.Module == m {
			return s, true
		}
	}
	return nil, false
}

type schemaFile struct {
	Versions []struct {
		Tag     string `toml:"tag"`
		Modules []struct {
			Name   string   `toml:"name"`
			Ints   []string `toml:"ints"`
			Floats []string `toml:"floats"`
		} `toml:"module"`
	} `toml:"version"`
}

func mustLoadSchemas(data []byte) map[VersionTag][]*CounterSchema {
	var sf schemaFile
	if err := toml.Unmarshal(data, &sf); err != nil {
		panic(errors.Wrap(err, "parsing embedded counter schemas"))
	}

	table := make(map[VersionTag][]*CounterSchema, len(sf.Versions))
	for _, v := range sf.Versions {
		tag := VersionTag(v.Tag)
		if len(v.Modules) == 0 {
			panic(errors.Errorf("version %q declares no counter schemas", v.Tag))
		}
		for _, m := range v.Modules {
			mt, err := ParseModuleType(m.Name)
			if err != nil {
				panic(errors.Wrapf(err, "counter schemas for version %q", v.Tag))
			}
			table[tag] = append(table[tag], &CounterSchema{
				Module:     mt,
				Ints:       m.Ints,
				Floats:     m.Floats,
				intIndex:   indexCounterNames(m.Ints),
				floatIndex: indexCounterNames(m.Floats),
			})
		}
	}
	return table
}

func indexCounterNames(names []string) map[string]int {
	index := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := index[name]; dup {
			panic(errors.Errorf("duplicate counter name %q", name))
		}
		index[name] = i
	}
	return index
}
