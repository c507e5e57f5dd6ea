// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package joblogcat

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/danjacques/gojoblog/format"
	"github.com/danjacques/gojoblog/logfile"
)

// logDump is one log's decoded content, shaped for output.
type logDump struct {
	Path     string      `json:"path"`
	Job      jobDump     `json:"job"`
	Files    []fileDump  `json:"files"`
	Exe      exeDump     `json:"exe"`
	Mounts   []mountDump `json:"mounts,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

type jobDump struct {
	Version     string            `json:"version"`
	UID         int64             `json:"uid"`
	JobID       int64             `json:"job_id"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	NProcs      int64             `json:"nprocs"`
	FileRecords int64             `json:"file_records"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type fileDump struct {
	Hash       string             `json:"hash"`
	Rank       int64              `json:"rank"`
	Module     string             `json:"module"`
	NameSuffix string             `json:"name_suffix,omitempty"`
	Counters   map[string]int64   `json:"counters"`
	FCounters  map[string]float64 `json:"fcounters"`

	// rec backs the text renderer, which prints counters in schema
	// order rather than map order.
	rec *format.FileRecord
}

type exeDump struct {
	Command   string `json:"command"`
	Truncated bool   `json:"truncated,omitempty"`
}

type mountDump struct {
	Point  string `json:"point"`
	FSType string `json:"fs_type"`
}

// dumpLog decodes the log at path and renders it to the app's output.
func (a *app) dumpLog(path string) error {
	h, err := logfile.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()
	h.Logger = a.logger

	job, err := h.GetJob()
	if err != nil {
		return err
	}

	d := logDump{
		Path: path,
		Job: jobDump{
			Version:     string(job.Version),
			UID:         job.UID,
			JobID:       job.JobID,
			StartTime:   job.StartTime,
			EndTime:     job.EndTime,
			NProcs:      job.NProcs,
			FileRecords: job.FileRecordCount,
			Metadata:    job.Metadata,
		},
		Warnings: logfile.VersionWarnings(job),
	}

	filter := a.moduleFlag.Value()
	for {
		rec, err := h.NextFile()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if filter != 0 && rec.Module != filter {
			continue
		}
		d.Files = append(d.Files, makeFileDump(rec))
	}

	exe, err := h.GetExe()
	if err != nil {
		return err
	}
	d.Exe = exeDump{Command: exe.Command, Truncated: exe.Truncated}

	mounts, err := h.GetMounts()
	if err != nil {
		return err
	}
	for _, m := range mounts {
		d.Mounts = append(d.Mounts, mountDump{Point: m.Point, FSType: m.FSType})
	}

	if a.jsonOut {
		return a.renderJSON(&d)
	}
	return a.renderText(&d)
}

func makeFileDump(rec *format.FileRecord) fileDump {
	fd := fileDump{
		Hash:       fmt.Sprintf("%#016x", rec.Hash),
		Rank:       rec.Rank,
		Module:     rec.Module.String(),
		NameSuffix: rec.NameSuffix,
		Counters:   make(map[string]int64, rec.Counters.Len()),
		FCounters:  make(map[string]float64, rec.FCounters.Len()),
		rec:        rec,
	}
	rec.Counters.Each(func(name string, v int64) { fd.Counters[name] = v })
	rec.FCounters.Each(func(name string, v float64) { fd.FCounters[name] = v })
	return fd
}

func (a *app) renderJSON(d *logDump) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func (a *app) renderText(d *logDump) error {
	w := a.out

	fmt.Fprintf(w, "# log:     %s\n", d.Path)
	fmt.Fprintf(w, "# version: %s\n", d.Job.Version)
	fmt.Fprintf(w, "# uid:     %d\n", d.Job.UID)
	fmt.Fprintf(w, "# jobid:   %d\n", d.Job.JobID)
	fmt.Fprintf(w, "# start:   %s\n", d.Job.StartTime.Format(time.RFC3339))
	fmt.Fprintf(w, "# end:     %s\n", d.Job.EndTime.Format(time.RFC3339))
	fmt.Fprintf(w, "# nprocs:  %d\n", d.Job.NProcs)
	fmt.Fprintf(w, "# records: %d\n", d.Job.FileRecords)
	for _, k := range sortedKeys(d.Job.Metadata) {
		fmt.Fprintf(w, "# meta:    %s = %s\n", k, d.Job.Metadata[k])
	}

	for _, f := range d.Files {
		fmt.Fprintf(w, "\n%s\trank=%s\thash=%s\tsuffix=%s\n",
			f.Module, rankLabel(f.Rank), f.Hash, f.NameSuffix)
		f.rec.Counters.Each(func(name string, v int64) {
			fmt.Fprintf(w, "\t%s\t%d\n", name, v)
		})
		f.rec.FCounters.Each(func(name string, v float64) {
			fmt.Fprintf(w, "\t%s\t%g\n", name, v)
		})
	}

	fmt.Fprintf(w, "\n# exe:     %s", d.Exe.Command)
	if d.Exe.Truncated {
		fmt.Fprintf(w, " (truncated)")
	}
	fmt.Fprintln(w)

	for _, m := range d.Mounts {
		fmt.Fprintf(w, "# mount:   %s (%s)\n", m.Point, m.FSType)
	}
	for _, warning := range d.Warnings {
		fmt.Fprintf(w, "# warning: %s\n", warning)
	}
	return nil
}

// rankLabel renders the shared-record rank as a word.
func rankLabel(rank int64) string {
	if rank == format.RankShared {
		return "shared"
	}
	return strconv.FormatInt(rank, 10)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
