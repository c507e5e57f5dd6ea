// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package logfile reads compressed job I/O characterization logs.
//
// A log is opened with Open and consumed through the returned Handle in
// stream order: GetJob, NextFile until io.EOF, GetExe, GetMounts, and
// finally Close. The Handle enforces that order; calls made out of
// sequence fail with ErrOutOfOrder rather than reading misaligned
// bytes.
package logfile
