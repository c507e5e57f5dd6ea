// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	"bytes"
	"encoding/binary"

	"github.com/danjacques/gojoblog/support/bufferpool"
	"github.com/danjacques/gojoblog/support/byteslicereader"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// RankShared is the Rank of a record aggregated across every process in
// the job rather than attributed to a single one.
const RankShared int64 = -1

// nameSuffixSize is the byte width of a record's path suffix region.
const nameSuffixSize = 12

// File record prelude sizes, preceding the counter block.
const (
	recordPreludeTagged   = 36 // hash, rank, module tag, padding, name suffix
	recordPreludeUntagged = 28 // hash, rank, name suffix
)

// File record preludes, as the collectors write them.
//
// /**
//  * v0.9+ file record prelude:
//  * uint64_t hash;
//  * int64_t  rank;
//  * uint32_t module;
//  * char     pad[4];
//  * char     name_suffix[12];
//  */
type fileRecordPreludeTagged struct {
	Hash     uint64 `struc:",little"`
	Rank     int64  `struc:",little"`
	Module   uint32 `struc:",little"`
	Pad20_23 []byte `struc:"[4]pad"`
	Suffix   [nameSuffixSize]byte
}

// /**
//  * v0.8 file record prelude (no module tag; POSIX implied):
//  * uint64_t hash;
//  * int64_t  rank;
//  * char     name_suffix[12];
//  */
type fileRecordPreludeUntagged struct {
	Hash   uint64 `struc:",little"`
	Rank   int64  `struc:",little"`
	Suffix [nameSuffixSize]byte
}

// FileRecord is one decoded per-file counter record.
type FileRecord struct {
	// Hash is the 64-bit hash of the file's full path.
	Hash uint64

	// Rank is the process rank that produced the record, or RankShared.
	Rank int64

	// Module identifies the instrumentation module that produced the
	// record.
	Module ModuleType

	// NameSuffix is the trailing portion of the file's path, with the
	// NUL padding stripped.
	NameSuffix string

	// Counters and FCounters hold the record's counter values, ordered
	// by the (version, module) schema.
	Counters  CounterSet
	FCounters FCounterSet
}

func (l *Layout) recordPreludeSize() int {
	if l.HasModuleTags {
		return recordPreludeTagged
	}
	return recordPreludeUntagged
}

// RecordReader decodes file records for a single log's layout.
//
// A RecordReader stages one record at a time in a pooled buffer. It is
// not safe for concurrent use.
type RecordReader struct {
	layout *Layout
	pool   bufferpool.Pool
}

// NewRecordReader returns a RecordReader for the given layout.
func NewRecordReader(l *Layout) *RecordReader {
	rr := RecordReader{layout: l}
	rr.pool.Size = l.MaxRecordSize()
	return &rr
}

// ReadRecord reads and decodes the next file record from src.
func (rr *RecordReader) ReadRecord(src Source) (*FileRecord, error) {
	buf := rr.pool.Get()
	defer buf.Release()
	data := buf.Bytes()

	// Stage the fixed prelude first; its module tag sizes the counter
	// block that follows.
	preludeSize := rr.layout.recordPreludeSize()
	if err := src.ReadFull(data[:preludeSize]); err != nil {
		return nil, errors.Wrap(err, "reading file record prelude")
	}

	rec, err := rr.parsePrelude(data[:preludeSize])
	if err != nil {
		return nil, err
	}

	schema, ok := SchemaFor(rr.layout.Tag, rec.Module)
	if !ok {
		return nil, errors.Wrapf(ErrFormat, "version %s has no module %s", rr.layout.Tag, rec.Module)
	}

	block := data[preludeSize : preludeSize+schema.CounterBlockSize()]
	if err := src.ReadFull(block); err != nil {
		return nil, errors.Wrapf(err, "reading %s counter block", rec.Module)
	}
	if err := parseCounterBlock(rec, schema, block); err != nil {
		return nil, err
	}
	return rec, nil
}

func (rr *RecordReader) parsePrelude(data []byte) (*FileRecord, error) {
	r := byteslicereader.R{Buffer: data}

	var rec FileRecord
	if rr.layout.HasModuleTags {
		var p fileRecordPreludeTagged
		if err := struc.Unpack(&r, &p); err != nil {
			return nil, errors.Wrap(err, "unpacking file record prelude")
		}
		rec = FileRecord{
			Hash:       p.Hash,
			Rank:       p.Rank,
			Module:     ModuleType(p.Module),
			NameSuffix: string(bytes.TrimRight(p.Suffix[:], "\x00")),
		}
	} else {
		var p fileRecordPreludeUntagged
		if err := struc.Unpack(&r, &p); err != nil {
			return nil, errors.Wrap(err, "unpacking file record prelude")
		}
		rec = FileRecord{
			Hash:       p.Hash,
			Rank:       p.Rank,
			Module:     ModulePOSIX,
			NameSuffix: string(bytes.TrimRight(p.Suffix[:], "\x00")),
		}
	}

	if rec.Rank < RankShared {
		return nil, errors.Wrapf(ErrFormat, "invalid record rank %d", rec.Rank)
	}
	return &rec, nil
}

func parseCounterBlock(rec *FileRecord, schema *CounterSchema, block []byte) error {
	r := byteslicereader.R{Buffer: block}

	ints := make([]int64, len(schema.Ints))
	if err := binary.Read(&r, binary.LittleEndian, ints); err != nil {
		return errors.Wrapf(err, "decoding %s integer counters", schema.Module)
	}
	floats := make([]float64, len(schema.Floats))
	if err := binary.Read(&r, binary.LittleEndian, floats); err != nil {
		return errors.Wrapf(err, "decoding %s float counters", schema.Module)
	}

	rec.Counters = CounterSet{schema: schema, values: ints}
	rec.FCounters = FCounterSet{schema: schema, values: floats}
	return nil
}
