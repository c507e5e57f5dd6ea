// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package logfile

import (
	"github.com/danjacques/gojoblog/format"
	"github.com/danjacques/gojoblog/support/zstream"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	readerOpens = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "joblog_reader_opens",
		Help: "Count of logs opened, by container codec.",
	},
		[]string{"codec"})

	readerOpenErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "joblog_reader_open_errors",
		Help: "Count of logs that could not be opened.",
	})

	readerJobsDecoded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "joblog_reader_jobs_decoded",
		Help: "Count of job headers decoded, by format version.",
	},
		[]string{"version"})

	readerFileRecords = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "joblog_reader_file_records",
		Help: "Count of file records decoded.",
	})

	readerDecodeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "joblog_reader_decode_errors",
		Help: "Count of decode failures, by kind.",
	},
		[]string{"kind"})

	readerLegacyVersions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "joblog_reader_legacy_versions",
		Help: "Count of supported legacy-version logs decoded.",
	})

	readerClockAnomalies = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "joblog_reader_clock_anomalies",
		Help: "Count of jobs whose end time precedes their start time.",
	})
)

// RegisterMonitoring registers all of this package's monitoring metrics.
func RegisterMonitoring(reg prometheus.Registerer) {
	reg.MustRegister(
		readerOpens,
		readerOpenErrors,
		readerJobsDecoded,
		readerFileRecords,
		readerDecodeErrors,
		readerLegacyVersions,
		readerClockAnomalies,
	)
}

// observeDecodeError counts err under its decode error kind.
func observeDecodeError(err error) {
	var kind string
	switch {
	case errors.Is(err, format.ErrFormat):
		kind = "format"
	case errors.Is(err, format.ErrUnsupportedVersion):
		kind = "version"
	case errors.Is(err, zstream.ErrTruncated):
		kind = "truncated"
	default:
		kind = "other"
	}
	readerDecodeErrors.WithLabelValues(kind).Inc()
}
