// Package logging provides leveled, structured logging with file output
// and size-based rotation.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Nomadcxx/jellycache/internal/paths"
)

// Level represents a logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level. Unknown names map to info.
func ParseLevel(s string) Level {
	l, _ := LookupLevel(s)
	return l
}

// LookupLevel converts a string to a Level and reports whether the name
// was recognized.
func LookupLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// Config holds logger configuration
type Config struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	File       string `mapstructure:"file"`        // empty = ~/.config/jellycache/logs/jellycache.log
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after this size
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns default logging configuration
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSizeMB:  10,
		MaxBackups: 5,
	}
}

// Logger writes leveled lines to its outputs. Loggers from New also keep
// a rotating file.
type Logger struct {
	mu      sync.Mutex
	level   Level
	outputs []io.Writer
	file    *rotatingFile
}

// New creates a Logger writing to stdout and the configured log file.
func New(cfg Config) (*Logger, error) {
	path, err := resolveFile(cfg.File)
	if err != nil {
		return nil, err
	}

	maxSize := int64(cfg.MaxSizeMB) << 20
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 5
	}

	f, err := openRotatingFile(path, maxSize, maxBackups)
	if err != nil {
		return nil, err
	}

	return &Logger{
		level:   ParseLevel(cfg.Level),
		outputs: []io.Writer{os.Stdout, f},
		file:    f,
	}, nil
}

func resolveFile(file string) (string, error) {
	if file == "" {
		logPath, err := paths.LogPath()
		if err != nil {
			return "", fmt.Errorf("unable to resolve log path: %w", err)
		}
		return logPath, nil
	}

	if strings.HasPrefix(file, "~") {
		home, err := paths.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to get home dir: %w", err)
		}
		return filepath.Join(home, file[1:]), nil
	}
	return file, nil
}

// NewWriter creates a Logger that writes only to w, without rotation.
func NewWriter(w io.Writer, level Level) *Logger {
	return &Logger{
		level:   level,
		outputs: []io.Writer{w},
	}
}

// Nop returns a no-operation logger that discards all output
func Nop() *Logger {
	return &Logger{level: LevelError + 1}
}

func (l *Logger) log(level Level, component, msg string, err error, fields []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level || len(l.outputs) == 0 {
		return
	}

	line := formatLine(time.Now(), level, component, msg, err, fields)
	for _, w := range l.outputs {
		if _, werr := w.Write(line); werr != nil {
			fmt.Fprintf(os.Stderr, "log write error: %v\n", werr)
		}
	}
}

// Debug logs a debug message
func (l *Logger) Debug(component, msg string, fields ...Field) {
	l.log(LevelDebug, component, msg, nil, fields)
}

// Info logs an info message
func (l *Logger) Info(component, msg string, fields ...Field) {
	l.log(LevelInfo, component, msg, nil, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(component, msg string, fields ...Field) {
	l.log(LevelWarn, component, msg, nil, fields)
}

// Error logs an error message with an error
func (l *Logger) Error(component, msg string, err error, fields ...Field) {
	l.log(LevelError, component, msg, err, fields)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// FilePath returns the log file path, or "" for loggers without a file.
func (l *Logger) FilePath() string {
	if l.file == nil {
		return ""
	}
	return l.file.path
}
