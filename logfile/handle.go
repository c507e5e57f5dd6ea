// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package logfile

import (
	"fmt"
	"io"

	"github.com/danjacques/gojoblog/format"
	"github.com/danjacques/gojoblog/support/fmtutil"
	"github.com/danjacques/gojoblog/support/logging"
	"github.com/danjacques/gojoblog/support/zstream"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfOrder is returned by Handle calls made outside of the
	// reading sequence.
	ErrOutOfOrder = errors.New("call out of stream order")

	// ErrClosed is returned by Handle calls made after Close.
	ErrClosed = errors.New("log handle is closed")
)

// handleState is a Handle's position in the reading sequence.
type handleState int

const (
	stateOpened handleState = iota
	stateJobRead
	stateFilesDone
	stateExeRead
	stateMountsRead
	stateClosed
)

func (s handleState) String() string {
	switch s {
	case stateOpened:
		return "OPENED"
	case stateJobRead:
		return "JOB_READ"
	case stateFilesDone:
		return "FILES_DONE"
	case stateExeRead:
		return "EXE_READ"
	case stateMountsRead:
		return "MOUNTS_READ"
	case stateClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// Handle reads a single log in stream order.
//
// Handle must be instantiated using Open. After instantiation, Handle
// can be modified to control its behavior until the first read call.
//
// A Handle is not safe for concurrent use. Distinct Handles are fully
// independent of each other.
type Handle struct {
	// Logger, if not nil, receives advisory logs. Decode failures are
	// returned, never logged.
	Logger logging.L

	// path is the path the log was opened from.
	path string

	// zr is the decompressed view of the log stream.
	zr *zstream.Reader

	state handleState

	// layout and rr are established by GetJob, once the version tag
	// names the log's shape.
	layout *format.Layout
	rr     *format.RecordReader

	job *format.JobRecord

	// remaining counts the file records not yet consumed. The job
	// header's declared count is authoritative; the stream ending first
	// is truncation.
	remaining int64
}

// Open opens the log at path.
//
// Open only establishes the decompressed view of the stream; no log
// data is decoded until GetJob.
func Open(path string) (*Handle, error) {
	zr, err := zstream.Open(path)
	if err != nil {
		readerOpenErrors.Inc()
		if errors.Is(err, zstream.ErrContainer) {
			return nil, errors.Wrapf(format.ErrFormat, "opening %q: %v", path, err)
		}
		return nil, err
	}

	readerOpens.WithLabelValues(zr.Codec().String()).Inc()
	return &Handle{
		path:  path,
		zr:    zr,
		state: stateOpened,
	}, nil
}

// Path returns the path the log was opened from.
func (h *Handle) Path() string { return h.path }

// Job returns the decoded job record, or nil before GetJob.
func (h *Handle) Job() *format.JobRecord { return h.job }

// require fails unless the Handle is in state want.
func (h *Handle) require(want handleState) error {
	switch h.state {
	case want:
		return nil
	case stateClosed:
		return ErrClosed
	default:
		return errors.Wrapf(ErrOutOfOrder, "handle is %s, not %s", h.state, want)
	}
}

// GetJob reads the log's version tag and decodes its job header.
//
// GetJob must be the Handle's first read call, and may be made only
// once.
func (h *Handle) GetJob() (*format.JobRecord, error) {
	if err := h.require(stateOpened); err != nil {
		return nil, err
	}

	var tagBuf [format.VersionTagSize]byte
	if err := h.zr.ReadFull(tagBuf[:]); err != nil {
		observeDecodeError(err)
		return nil, errors.Wrap(err, "reading version tag")
	}
	tag, err := format.ParseVersionTag(tagBuf[:])
	if err != nil {
		observeDecodeError(err)
		return nil, err
	}
	layout, err := format.LayoutFor(tag)
	if err != nil {
		observeDecodeError(err)
		return nil, err
	}

	logger := logging.Must(h.Logger)
	logger.Debugf("Log %q is version %s in a %s container.", h.path, tag, h.zr.Codec())

	hdr := make([]byte, layout.JobHeaderSize)
	if err := h.zr.ReadFull(hdr); err != nil {
		observeDecodeError(err)
		return nil, errors.Wrap(err, "reading job header")
	}
	job, err := layout.ParseJobHeader(hdr)
	if err != nil {
		logger.Debugf("Rejected job header (%d byte(s)):\n%s", len(hdr), fmtutil.Hex(hdr))
		observeDecodeError(err)
		return nil, err
	}

	// Clock trouble on the compute nodes is advisory, never fatal.
	if verr := job.Validate(); verr != nil {
		readerClockAnomalies.Inc()
		logger.Warnf("Job %d in %q is inconsistent: %s.", job.JobID, h.path, verr)
	}
	if format.Classify(tag) == format.ClassSupportedLegacy {
		readerLegacyVersions.Inc()
	}
	readerJobsDecoded.WithLabelValues(string(tag)).Inc()

	h.layout = layout
	h.rr = format.NewRecordReader(layout)
	h.job = job
	h.remaining = job.FileRecordCount
	if h.remaining == 0 {
		h.state = stateFilesDone
	} else {
		h.state = stateJobRead
	}
	return job, nil
}

// NextFile reads and decodes the next file record.
//
// Once the job's declared record count has been consumed, NextFile
// returns io.EOF. The declared count is authoritative: a stream that
// ends before satisfying it is reported as truncation, and a record
// past the count is never probed for.
func (h *Handle) NextFile() (*format.FileRecord, error) {
	switch h.state {
	case stateJobRead:
	case stateFilesDone:
		return nil, io.EOF
	case stateClosed:
		return nil, ErrClosed
	default:
		return nil, errors.Wrapf(ErrOutOfOrder, "handle is %s, not %s", h.state, stateJobRead)
	}

	rec, err := h.rr.ReadRecord(h.zr)
	if err != nil {
		observeDecodeError(err)
		return nil, err
	}

	readerFileRecords.Inc()
	if h.remaining--; h.remaining == 0 {
		h.state = stateFilesDone
	}
	return rec, nil
}

// GetExe reads the executable record. It is valid only once every file
// record has been consumed.
func (h *Handle) GetExe() (*format.Executable, error) {
	if err := h.require(stateFilesDone); err != nil {
		return nil, err
	}

	exe, err := h.layout.ReadExe(h.zr)
	if err != nil {
		observeDecodeError(err)
		return nil, err
	}
	h.state = stateExeRead
	return exe, nil
}

// GetMounts reads the mount table that follows the executable record.
//
// Logs whose layout predates mount tables yield nil.
func (h *Handle) GetMounts() ([]format.Mount, error) {
	if err := h.require(stateExeRead); err != nil {
		return nil, err
	}

	mounts, err := h.layout.ReadMountTable(h.zr)
	if err != nil {
		observeDecodeError(err)
		return nil, err
	}
	h.state = stateMountsRead
	return mounts, nil
}

// Close releases the Handle's underlying file.
//
// Close is valid from any state and must be called exactly once.
func (h *Handle) Close() error {
	if h.state == stateClosed {
		return ErrClosed
	}
	h.state = stateClosed
	return h.zr.Close()
}
