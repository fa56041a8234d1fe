// Package logging builds slog handlers for the spindle library and CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/spindleui/spindle/internal/logging/writers"
)

// NewTextHandler configures a human-readable slog handler backed by
// charmbracelet/log with the provided writer and log level.
func NewTextHandler(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	reportCaller := false
	reportTimestamp := false
	lvl := log.InfoLevel
	switch strings.ToLower(logLevel) {
	case "trace":
		reportCaller = true
		reportTimestamp = true
		lvl = log.DebugLevel
	case "debug":
		reportTimestamp = true
		lvl = log.DebugLevel
	case "warn", "warning":
		lvl = log.WarnLevel
	case "error":
		lvl = log.ErrorLevel
	}

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: reportTimestamp,
		ReportCaller:    reportCaller,
		Level:           lvl,
	})
}

// NewJSONHandler configures a JSON slog handler with the provided writer and
// log level.
func NewJSONHandler(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stdout
	}

	addSource := false
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "trace":
		addSource = true
		level = slog.LevelDebug
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	})
}

// NewHandler selects a handler by format name ("text" or "json").
func NewHandler(format, logLevel string, writer io.Writer) slog.Handler {
	if strings.ToLower(format) == "json" {
		return NewJSONHandler(logLevel, writer)
	}
	return NewTextHandler(logLevel, writer)
}

// SetupLogger installs a handler of the given format and level as the default
// slog logger, writing to the destination named by output (see
// writers.Resolve for the accepted forms).
func SetupLogger(format, logLevel, output string) error {
	writer, err := writers.Resolve(output)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(NewHandler(format, logLevel, writer)))
	return nil
}
