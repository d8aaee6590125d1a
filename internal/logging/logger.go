// Copyright (c) 2025 sqlblock
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// VerboseEnv enables debug logging regardless of the configured level.
const VerboseEnv = "SQLBLOCK_VERBOSE"

// IsVerbose reports whether verbose mode is enabled through the environment.
func IsVerbose() bool {
	return os.Getenv(VerboseEnv) == "1"
}

// ParseLevel maps a config level name to a pterm log level. Unknown names mean info.
func ParseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// New builds the CLI logger writing to w (stderr when nil).
// JSON output is meant for scripts driving the CLI.
func New(level string, json bool, w io.Writer) *pterm.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := ParseLevel(level)
	if IsVerbose() && lvl > pterm.LogLevelDebug {
		lvl = pterm.LogLevelDebug
	}
	logger := pterm.DefaultLogger.WithLevel(lvl).WithWriter(w)
	if json {
		logger = logger.WithFormatter(pterm.LogFormatterJSON)
	}
	return logger
}

// Discard returns a logger that drops everything, for tests and library callers.
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled).WithWriter(io.Discard)
}
