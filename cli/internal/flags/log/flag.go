// Package log configures the structured logger of the depmgr CLI from
// command line flags.
package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"depmgr.software/dependency-manager/cli/internal/flags/enum"
)

const (
	FormatFlagName = "logformat"
	FormatText     = "text"
	FormatJSON     = "json"
)

const (
	LevelFlagName = "loglevel"
	LevelWarn     = "warn"
	LevelDebug    = "debug"
	LevelInfo     = "info"
	LevelError    = "error"
)

const (
	OutputFlagName = "logoutput"
	OutputStderr   = "stderr"
	OutputStdout   = "stdout"
)

var levels = map[string]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// RegisterLoggingFlags adds the log format, level and output flags to flagset.
// Logs go to stderr by default so that they never mix with rendered graphs.
//
//	--logformat json --loglevel debug --logoutput stderr
func RegisterLoggingFlags(flagset *pflag.FlagSet) {
	enum.Var(flagset, FormatFlagName, []string{FormatText, FormatJSON}, `set the log output format
   text: human-readable output for the console
   json: one JSON object per log record`)
	enum.Var(flagset, LevelFlagName, []string{LevelWarn, LevelDebug, LevelInfo, LevelError}, `sets the logging level
   debug: include every resolution step
   info:  resolved components and downloads
   warn:  warnings and errors only (default)
   error: errors only`)
	enum.Var(flagset, OutputFlagName, []string{OutputStderr, OutputStdout}, `set the log output destination`)
}

// GetBaseLogger creates the logger described by the logging flags of cmd.
func GetBaseLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelName, err := enum.Get(cmd.Flags(), LevelFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get log level: %w", err)
	}
	level, ok := levels[levelName]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", levelName)
	}

	format, err := enum.Get(cmd.Flags(), FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log format from the command flag: %w", err)
	}
	output, err := enum.Get(cmd.Flags(), OutputFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log output from the command flag: %w", err)
	}

	var w io.Writer = cmd.ErrOrStderr()
	if output == OutputStdout {
		w = cmd.OutOrStdout()
	}

	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}
