// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package format defines the on-disk layout of job trace logs and the
// decoders for their records.
//
// A log is a single compressed byte stream holding, in order: an 8-byte
// version tag, a job header, one counter record per instrumented file,
// the captured executable line, and (in current versions) a table of the
// mount points the job touched. This package knows every supported
// version's layout and counter schema; the logfile package drives the
// decoders in sequence over a log's stream.
//
// All decoders fail fast. A structural problem invalidates the rest of
// the log; nothing is skipped or repaired.
package format
