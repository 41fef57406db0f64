// Package test provides utilities for testing the depmgr CLI commands.
// It executes the root command in-process and parses JSON log output.
package test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"

	"depmgr.software/dependency-manager/cli/cmd"
)

// Options holds the configuration of a CLI invocation in tests.
type Options struct {
	args   []string
	out    io.Writer
	errOut io.Writer
}

type Option func(*Options)

// WithArgs sets the command line arguments.
func WithArgs(args ...string) Option {
	return func(o *Options) {
		o.args = args
	}
}

// WithOutput captures the output of the command.
func WithOutput(out io.Writer) Option {
	return func(o *Options) {
		o.out = out
	}
}

// WithErrorOutput captures the error output of the command, which by default
// also receives the logs.
func WithErrorOutput(errOut io.Writer) Option {
	return func(o *Options) {
		o.errOut = errOut
	}
}

// Depmgr executes the CLI with the given options and returns the executed
// command and its error.
func Depmgr(tb testing.TB, opts ...Option) (*cobra.Command, error) {
	tb.Helper()
	opt := Options{}
	for _, o := range opts {
		o(&opt)
	}
	if len(opt.args) == 0 {
		opt.args = []string{"help"}
	}

	instance := cmd.New()
	if opt.out != nil {
		instance.SetOut(opt.out)
	}
	if opt.errOut != nil {
		instance.SetErr(opt.errOut)
	}
	instance.SetArgs(opt.args)
	return instance.ExecuteContextC(tb.Context())
}

// JSONLogs records JSON log output of a command. Lines that are not JSON
// objects are ignored.
type JSONLogs struct {
	bytes.Buffer
}

// LogEntry is a single log record. Attrs holds every attribute except
// time, level and msg.
type LogEntry struct {
	Level string
	Msg   string
	Attrs map[string]any
}

// Entries parses the recorded log records in order.
func (l *JSONLogs) Entries() ([]LogEntry, error) {
	var entries []LogEntry
	for line := range bytes.Lines(l.Bytes()) {
		var attrs map[string]any
		if err := json.Unmarshal(line, &attrs); err != nil {
			continue
		}
		entry := LogEntry{Attrs: attrs}
		entry.Level, _ = attrs[slog.LevelKey].(string)
		entry.Msg, _ = attrs[slog.MessageKey].(string)
		for _, key := range []string{slog.TimeKey, slog.LevelKey, slog.MessageKey} {
			delete(attrs, key)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Find returns the entries whose attribute key has the given value.
func (l *JSONLogs) Find(key string, value any) ([]LogEntry, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	var found []LogEntry
	for _, entry := range entries {
		if entry.Attrs[key] == value {
			found = append(found, entry)
		}
	}
	return found, nil
}
