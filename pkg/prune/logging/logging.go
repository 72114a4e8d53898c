// Package logging provides component loggers for the pruning CLI.
//
// Diagnostics and warnings go to stderr so that stdout stays reserved for
// dry-run previews and the run summary. An optional log file under
// $XDG_STATE_HOME/hdfsprune/ captures the same stream.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logger := logging.Get("pruner")
//	logger.Warn("skipping unparseable listing line", "line", line)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Level represents a logging level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a string into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// toCharmLevel converts our Level to a charmbracelet/log level.
func (l Level) toCharmLevel() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the log level (debug, info, warn, error).
	Level string

	// Path is an optional log file. Empty disables file output.
	Path string

	// Quiet suppresses console output below the error level.
	Quiet bool
}

// Logger writes to the console and, when configured, a log file.
type Logger struct {
	console *log.Logger
	file    *log.Logger // nil without file output
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.console.Debug(msg, args...)
	if l.file != nil {
		l.file.Debug(msg, args...)
	}
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.console.Info(msg, args...)
	if l.file != nil {
		l.file.Info(msg, args...)
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.console.Warn(msg, args...)
	if l.file != nil {
		l.file.Warn(msg, args...)
	}
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.console.Error(msg, args...)
	if l.file != nil {
		l.file.Error(msg, args...)
	}
}

// state holds the global logging configuration.
type state struct {
	mu          sync.Mutex
	initialized bool
	level       Level
	quiet       bool
	fileHandle  *os.File
	loggers     map[string]*Logger
}

var globalState = &state{loggers: make(map[string]*Logger)}

// Init configures the logging system. Loggers obtained before Init are
// silent. Init may be called again to reconfigure.
func Init(cfg Config) error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	if globalState.fileHandle != nil {
		_ = globalState.fileHandle.Close()
		globalState.fileHandle = nil
	}

	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		globalState.fileHandle = f
	}

	globalState.level = level
	globalState.quiet = cfg.Quiet
	globalState.initialized = true
	globalState.loggers = make(map[string]*Logger)

	return nil
}

// Get returns a logger for the given component.
func Get(component string) *Logger {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if logger, ok := globalState.loggers[component]; ok {
		return logger
	}

	logger := createLogger(component)
	globalState.loggers[component] = logger
	return logger
}

// createLogger builds a component logger. Must be called with the state
// lock held.
func createLogger(component string) *Logger {
	if !globalState.initialized {
		return &Logger{console: log.NewWithOptions(io.Discard, log.Options{Prefix: component})}
	}

	consoleLevel := globalState.level
	if globalState.quiet && consoleLevel < LevelError {
		consoleLevel = LevelError
	}

	logger := &Logger{
		console: log.NewWithOptions(os.Stderr, log.Options{
			Level:           consoleLevel.toCharmLevel(),
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          component,
		}),
	}

	if globalState.fileHandle != nil {
		logger.file = log.NewWithOptions(globalState.fileHandle, log.Options{
			Level:           globalState.level.toCharmLevel(),
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          component,
		})
	}

	return logger
}

// Close flushes and closes the log file, if any.
func Close() error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if globalState.fileHandle != nil {
		if err := globalState.fileHandle.Close(); err != nil {
			return fmt.Errorf("closing log file: %w", err)
		}
		globalState.fileHandle = nil
	}
	globalState.initialized = false
	globalState.loggers = make(map[string]*Logger)
	return nil
}

// DefaultLogPath returns $XDG_STATE_HOME/hdfsprune/hdfsprune.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "hdfsprune", "hdfsprune.log")
}
