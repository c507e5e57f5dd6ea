// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package logfile

import (
	"fmt"

	"github.com/danjacques/gojoblog/format"
)

// VersionWarnings returns advisory messages about job's format version.
//
// A current-version job yields no warnings; a supported legacy version
// yields exactly one, naming the version and what its records lack.
// VersionWarnings is a pure function of the job record, and each call
// returns a fresh slice.
func VersionWarnings(job *format.JobRecord) []string {
	switch format.Classify(job.Version) {
	case format.ClassCurrent:
		return nil

	case format.ClassSupportedLegacy:
		return []string{fmt.Sprintf(
			"log version %s predates the current format and its records lack %s; "+
				"regenerate the log with a current collector for full coverage",
			job.Version, legacyGap(job.Version))}

	default:
		return []string{fmt.Sprintf("log version %s cannot be decoded by this reader", job.Version)}
	}
}

// legacyGap names what a supported legacy version's records are missing
// relative to the current format.
func legacyGap(v format.VersionTag) string {
	switch v {
	case format.Version08:
		return "per-module tags and job metadata"
	case format.Version09:
		return "STDIO records and the mount table"
	default:
		return "the current counter set"
	}
}
