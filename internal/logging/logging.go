// Package logging configures the leveled logger shared by all commands.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const timeFormat = "15:04:05.000"

// ParseLevel parses a log level string, falling back to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "warning":
		return log.WarnLevel
	}
	level, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// New creates a logger writing to w.
func New(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Prefix:          "parallax",
	})
}

// Open appends to the file at path. The interactive view owns the terminal, so
// it logs here instead of stderr.
func Open(path, level string) (*log.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return New(f, level), f, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel + 1)
	return l
}
