// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LogLevel represents the level of logging
type LogLevel int

const (
	// Debug log level
	DebugLevel LogLevel = iota
	// Info log level
	InfoLevel
	// Warning log level
	WarningLevel
	// Error log level
	ErrorLevel
)

// Logger interface defines methods for logging at different levels
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Config contains logger configuration
type Config struct {
	Level LogLevel
	File  string
}

// DefaultLogger implements the Logger interface using the standard log package
type DefaultLogger struct {
	level    LogLevel
	stdFlags int
}

// NewDefaultLogger creates a new default logger with the specified log level
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		level:    level,
		stdFlags: log.LstdFlags | log.Lshortfile,
	}
}

// Configure sets up the logger with given configuration
func Configure(config Config) (*DefaultLogger, error) {
	logger := NewDefaultLogger(config.Level)
	log.SetFlags(logger.stdFlags)

	// If log file is specified, set up file logging
	if config.File != "" {
		// Create directory if it doesn't exist
		dir := filepath.Dir(config.File)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
		// Try to open the log file
		f, err := os.OpenFile(config.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", config.File, err)
		}
		log.SetOutput(f)
	}

	return logger, nil
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	if l.level <= DebugLevel {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an informational message
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	if l.level <= InfoLevel {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warning logs a warning message
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	if l.level <= WarningLevel {
		log.Printf("[WARNING] "+format, args...)
	}
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	if l.level <= ErrorLevel {
		log.Printf("[ERROR] "+format, args...)
	}
}

// namedLogger prefixes every message with a subsystem tag, so log lines
// from the process's concurrent actors (audio capture, VAD/session,
// hotkey, recognition client, overlay, IPC, ...) can be told apart without
// every call site repeating the subsystem name in its own format string.
type namedLogger struct {
	parent Logger
	prefix string
}

// Named wraps parent with a "[component] " prefix on every line.
func Named(parent Logger, component string) Logger {
	return &namedLogger{parent: parent, prefix: "[" + component + "] "}
}

func (n *namedLogger) Debug(format string, args ...interface{}) {
	n.parent.Debug(n.prefix+format, args...)
}

func (n *namedLogger) Info(format string, args ...interface{}) {
	n.parent.Info(n.prefix+format, args...)
}

func (n *namedLogger) Warning(format string, args ...interface{}) {
	n.parent.Warning(n.prefix+format, args...)
}

func (n *namedLogger) Error(format string, args ...interface{}) {
	n.parent.Error(n.prefix+format, args...)
}

// DebugCategoryEnabled reports whether AURISCRIBE_DEBUG_<CATEGORY> is set,
// implementing the settings table's "*_DEBUG_*" environment variable row:
// each subsystem that supports a debug dump (e.g. "audio") checks its own
// category rather than a single global flag.
func DebugCategoryEnabled(category string) bool {
	return os.Getenv("AURISCRIBE_DEBUG_"+strings.ToUpper(category)) != ""
}
