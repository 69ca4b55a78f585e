// Package common provides shared utilities for fintrack
package common

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/phuslu/log"
)

// Logger wraps log.Logger to provide a consistent interface
type Logger struct {
	log.Logger
}

func parseLevel(level string) log.Level {
	switch level {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewLogger creates a new console logger on stderr with the specified level
func NewLogger(level string) *Logger {
	return &Logger{Logger: log.Logger{
		Level:      parseLevel(level),
		TimeFormat: time.RFC3339,
		Writer: &log.ConsoleWriter{
			Writer:      os.Stderr,
			ColorOutput: true,
		},
	}}
}

// NewLoggerWithOutput creates a JSON logger writing to a specific output
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	return &Logger{Logger: log.Logger{
		Level:      parseLevel(level),
		TimeFormat: time.RFC3339,
		Writer:     &log.IOWriter{Writer: w},
	}}
}

// NewLoggerFromConfig builds a logger from the logging section of the config.
// A file output that cannot be prepared falls back to the console.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	var writers log.MultiEntryWriter
	for _, out := range cfg.Outputs {
		switch out {
		case "console":
			if cfg.Format == "json" {
				writers = append(writers, &log.IOWriter{Writer: os.Stderr})
			} else {
				writers = append(writers, &log.ConsoleWriter{Writer: os.Stderr, ColorOutput: true})
			}
		case "file":
			if cfg.FilePath == "" {
				continue
			}
			if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
				continue
			}
			writers = append(writers, &log.FileWriter{
				Filename:   cfg.FilePath,
				MaxSize:    int64(cfg.MaxSizeMB) * 1024 * 1024,
				MaxBackups: cfg.MaxBackups,
				LocalTime:  true,
			})
		}
	}
	if len(writers) == 0 {
		return NewLogger(cfg.Level)
	}

	return &Logger{Logger: log.Logger{
		Level:      parseLevel(cfg.Level),
		TimeFormat: time.RFC3339,
		Writer:     &writers,
	}}
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger() *Logger {
	return NewLogger("info")
}

// NewSilentLogger creates a logger that discards all output
func NewSilentLogger() *Logger {
	return &Logger{Logger: log.Logger{
		Level:  log.ErrorLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}}
}
