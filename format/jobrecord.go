// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

import (
	"bytes"
	"math/bits"
	"strings"
	"time"

	"github.com/danjacques/gojoblog/support/byteslicereader"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Sanity ceilings for job header counts. A header whose counts land
// beyond these describes a log no real job could have produced.
const (
	maxFileRecordCount = int64(1) << 32
	maxModuleCount     = 64
)

// Job header layouts, as the collectors write them.
//
// /**
//  * v0.8 job header (56 bytes):
//  * uint64_t magic;
//  * int64_t  uid;
//  * int64_t  start_time;
//  * int64_t  end_time;
//  * int64_t  nprocs;
//  * int64_t  jobid;
//  * int64_t  nfiles;
//  */
type jobHeaderV08 struct {
	Magic  uint64 `struc:",little"`
	UID    int64  `struc:",little"`
	Start  int64  `struc:",little"`
	End    int64  `struc:",little"`
	NProcs int64  `struc:",little"`
	JobID  int64  `struc:",little"`
	NFiles int64  `struc:",little"`
}

// /**
//  * v0.9 job header (128 bytes):
//  * ...v0.8 fields...
//  * int64_t  nmodules;
//  * char     metadata[64];
//  */
type jobHeaderV09 struct {
	Magic    uint64 `struc:",little"`
	UID      int64  `struc:",little"`
	Start    int64  `struc:",little"`
	End      int64  `struc:",little"`
	NProcs   int64  `struc:",little"`
	JobID    int64  `struc:",little"`
	NFiles   int64  `struc:",little"`
	NModules int64  `struc:",little"`
	Metadata [64]byte
}

// /**
//  * v1.0 job header (192 bytes; jobid moved up beside uid):
//  * uint64_t magic;
//  * int64_t  uid;
//  * int64_t  jobid;
//  * int64_t  start_time;
//  * int64_t  end_time;
//  * int64_t  nprocs;
//  * int64_t  nfiles;
//  * int64_t  nmodules;
//  * char     metadata[128];
//  */
type jobHeaderV10 struct {
	Magic    uint64 `struc:",little"`
	UID      int64  `struc:",little"`
	JobID    int64  `struc:",little"`
	Start    int64  `struc:",little"`
	End      int64  `struc:",little"`
	NProcs   int64  `struc:",little"`
	NFiles   int64  `struc:",little"`
	NModules int64  `struc:",little"`
	Metadata [128]byte
}

// JobRecord is a log's decoded job header.
type JobRecord struct {
	// Version is the log's format version.
	Version VersionTag

	// UID is the numeric user ID the job ran as.
	UID int64

	// JobID is the scheduler's job identifier.
	JobID int64

	// StartTime and EndTime bound the job's execution. EndTime can
	// precede StartTime in logs from nodes with clock trouble; see
	// Validate.
	StartTime time.Time
	EndTime   time.Time

	// NProcs is the number of processes the job ran with.
	NProcs int64

	// FileRecordCount is the number of file records the log declares.
	// The count is authoritative: the reader trusts it over the length
	// of the stream.
	FileRecordCount int64

	// ModuleCount is the number of instrumentation modules that
	// contributed records. Versions without a module count report 1.
	ModuleCount int64

	// Metadata holds the collector's key=value annotations. Nil when
	// the version has no metadata region, or when it is empty.
	Metadata map[string]string
}

// Validate reports structural oddities in a decoded job record that are
// not fatal to decoding.
//
// A job whose end time precedes its start time is the product of clock
// trouble on the compute nodes. The record is reported as decoded, never
// corrected.
func (j *JobRecord) Validate() error {
	if j.EndTime.Before(j.StartTime) {
		return errors.Errorf("job end time %s precedes start time %s",
			j.EndTime.Format(time.RFC3339), j.StartTime.Format(time.RFC3339))
	}
	return nil
}

// ParseJobHeader decodes the job header staged in data, which holds the
// layout's JobHeaderSize bytes.
func (l *Layout) ParseJobHeader(data []byte) (*JobRecord, error) {
	r := byteslicereader.R{Buffer: data}

	var (
		job *JobRecord
		err error
	)
	switch l.Tag {
	case Version08:
		job, err = parseJobHeaderV08(&r)
	case Version09:
		job, err = parseJobHeaderV09(&r)
	case Version10:
		job, err = parseJobHeaderV10(&r)
	default:
		return nil, errors.Wrapf(ErrUnsupportedVersion, "no job header parser for version %q", l.Tag)
	}
	if err != nil {
		return nil, err
	}

	job.Version = l.Tag
	if err := checkJobCounts(job); err != nil {
		return nil, err
	}
	return job, nil
}

func parseJobHeaderV08(r *byteslicereader.R) (*JobRecord, error) {
	var hdr jobHeaderV08
	if err := struc.Unpack(r, &hdr); err != nil {
		return nil, errors.Wrap(err, "unpacking job header")
	}
	if err := checkJobMagic(hdr.Magic); err != nil {
		return nil, err
	}

	return &JobRecord{
		UID:             hdr.UID,
		JobID:           hdr.JobID,
		StartTime:       time.Unix(hdr.Start, 0).UTC(),
		EndTime:         time.Unix(hdr.End, 0).UTC(),
		NProcs:          hdr.NProcs,
		FileRecordCount: hdr.NFiles,
		ModuleCount:     1,
	}, nil
}

func parseJobHeaderV09(r *byteslicereader.R) (*JobRecord, error) {
	var hdr jobHeaderV09
	if err := struc.Unpack(r, &hdr); err != nil {
		return nil, errors.Wrap(err, "unpacking job header")
	}
	if err := checkJobMagic(hdr.Magic); err != nil {
		return nil, err
	}

	return &JobRecord{
		UID:             hdr.UID,
		JobID:           hdr.JobID,
		StartTime:       time.Unix(hdr.Start, 0).UTC(),
		EndTime:         time.Unix(hdr.End, 0).UTC(),
		NProcs:          hdr.NProcs,
		FileRecordCount: hdr.NFiles,
		ModuleCount:     hdr.NModules,
		Metadata:        parseJobMetadata(hdr.Metadata[:]),
	}, nil
}

func parseJobHeaderV10(r *byteslicereader.R) (*JobRecord, error) {
	var hdr jobHeaderV10
	if err := struc.Unpack(r, &hdr); err != nil {
		return nil, errors.Wrap(err, "unpacking job header")
	}
	if err := checkJobMagic(hdr.Magic); err != nil {
		return nil, err
	}

	return &JobRecord{
		UID:             hdr.UID,
		JobID:           hdr.JobID,
		StartTime:       time.Unix(hdr.Start, 0).UTC(),
		EndTime:         time.Unix(hdr.End, 0).UTC(),
		NProcs:          hdr.NProcs,
		FileRecordCount: hdr.NFiles,
		ModuleCount:     hdr.NModules,
		Metadata:        parseJobMetadata(hdr.Metadata[:]),
	}, nil
}

func checkJobMagic(magic uint64) error {
	switch magic {
	case jobMagic:
		return nil
	case bits.ReverseBytes64(jobMagic):
		return errors.Wrapf(ErrFormat,
			"job header magic 0x%016x is byte-reversed; the log was written by an opposite-endian collector", magic)
	default:
		return errors.Wrapf(ErrFormat, "bad job header magic 0x%016x (want 0x%016x)", magic, jobMagic)
	}
}

func checkJobCounts(job *JobRecord) error {
	switch {
	case job.NProcs < 0:
		return errors.Wrapf(ErrFormat, "negative process count %d", job.NProcs)
	case job.FileRecordCount < 0 || job.FileRecordCount > maxFileRecordCount:
		return errors.Wrapf(ErrFormat, "file record count %d out of range", job.FileRecordCount)
	case job.ModuleCount < 0 || job.ModuleCount > maxModuleCount:
		return errors.Wrapf(ErrFormat, "module count %d out of range", job.ModuleCount)
	}
	return nil
}

// parseJobMetadata parses the NUL-padded key=value region of a job
// header. Lines without a separator are ignored.
func parseJobMetadata(region []byte) map[string]string {
	region = bytes.TrimRight(region, "\x00")
	if len(region) == 0 {
		return nil
	}

	var m map[string]string
	for _, line := range strings.Split(string(region), "\n") {
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[key] = value
	}
	return m
}
