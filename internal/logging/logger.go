// Package logging holds the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ParseLevel maps "debug", "info", "warn" and "error" (any case) to a zerolog
// level. Empty input means info. ok is false for anything else, in which case
// info is returned.
func ParseLevel(level string) (l zerolog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "", "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	}
	return zerolog.InfoLevel, false
}

// Init initializes the global logger. Logs go to out (stderr when nil) and,
// if logFilePath is non-empty, to that file as well.
func Init(out io.Writer, logFilePath, level string) (func(), error) {
	l, _ := ParseLevel(level)
	zerolog.SetGlobalLevel(l)

	if out == nil {
		out = os.Stderr
	}
	writers := []io.Writer{out}
	var f *os.File
	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		var err error
		f, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			return nil, err
		}
		writers = append(writers, f)
	}
	Log = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Str("app", "notihub").Logger()
	return func() {
		if f != nil {
			_ = f.Close()
		}
	}, nil
}

// Log is the package-global logger configured by Init. Until Init runs it is
// the zero logger, which discards everything.
var Log zerolog.Logger

// Get returns a pointer to the package-global logger
func Get() *zerolog.Logger {
	return &Log
}
