// Package logging provides the structured leveled logger used across unimoddb.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Level represents the severity of a log message
type Level int

const (
	// DebugLevel for debug messages
	DebugLevel Level = iota
	// InfoLevel for informational messages
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
)

// ParseLevel converts a level name to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "info"
	}
}

// Format represents the output format for logs
type Format string

const (
	// JSONFormat outputs logs as JSON lines
	JSONFormat Format = "json"
	// HumanFormat outputs logs in human-readable format
	HumanFormat Format = "human"
)

// Fields carries structured key/value context for a log message
type Fields map[string]interface{}

// Logger provides structured logging
type Logger struct {
	level  Level
	format Format
	writer io.Writer
}

// New creates a logger writing to w. A nil writer defaults to stderr.
func New(level Level, format Format, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{level: level, format: format, writer: w}
}

// NewDiscard creates a logger that drops everything.
// Library consumers that do not supply a logger get this.
func NewDiscard() *Logger {
	return New(ErrorLevel, HumanFormat, io.Discard)
}

func (l *Logger) log(level Level, message string, fields Fields) {
	if level < l.level {
		return
	}

	ts := time.Now().UTC().Format(time.RFC3339)

	if l.format == JSONFormat {
		entry := struct {
			Timestamp string `json:"timestamp"`
			Level     string `json:"level"`
			Message   string `json:"message"`
			Fields    Fields `json:"fields,omitempty"`
		}{ts, level.String(), message, fields}

		data, err := json.Marshal(entry)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to marshal log entry: %v\n", err)
			return
		}
		_, _ = fmt.Fprintln(l.writer, string(data))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", ts, level, message)
	if len(fields) > 0 {
		// Sorted for stable human output
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" |")
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}
	_, _ = fmt.Fprintln(l.writer, b.String())
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields Fields) {
	l.log(DebugLevel, message, fields)
}

// Info logs an info message
func (l *Logger) Info(message string, fields Fields) {
	l.log(InfoLevel, message, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields Fields) {
	l.log(WarnLevel, message, fields)
}

// Error logs an error message
func (l *Logger) Error(message string, fields Fields) {
	l.log(ErrorLevel, message, fields)
}
