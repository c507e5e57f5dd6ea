// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package joblogcat defines the logic for the "joblogcat" dump tool.
//
// joblogcat prints the decoded contents of job I/O characterization
// logs: the job summary, each file record's counters, the captured
// command line, the mount table, and any version advisories. Output is
// plain text by default, or a JSON document per log with --json.
package joblogcat

import (
	"fmt"
	"io"
	"os"

	"github.com/danjacques/gojoblog/format"
	"github.com/danjacques/gojoblog/support/logging"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the tool's flag and output state.
type app struct {
	moduleFlag format.ModuleTypeFlag
	jsonOut    bool
	verbose    bool

	out    io.Writer
	logger logging.L
}

// Main is the main entry point.
func Main() {
	a := app{out: os.Stdout}
	if err := a.command().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "joblogcat: %s\n", err)
		os.Exit(1)
	}
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "joblogcat [flags] LOGFILE...",
		Short:         "Dump the contents of job I/O characterization logs",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.logger == nil {
				a.logger = newLogger(a.verbose)
			}
			for _, path := range args {
				if err := a.dumpLog(path); err != nil {
					return errors.Wrapf(err, "dumping %q", path)
				}
			}
			return nil
		},
	}

	pf := cmd.Flags()
	pf.Var(&a.moduleFlag, "module",
		fmt.Sprintf("only print records from this module (one of: %s)", format.ModuleTypeFlagValues()))
	pf.BoolVar(&a.jsonOut, "json", false, "emit each log as an indented JSON document")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// newLogger builds the tool's logger. A logger that cannot be built
// falls back to silence rather than blocking the dump.
func newLogger(verbose bool) logging.L {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return logging.Nop
	}
	return logger.Sugar()
}
