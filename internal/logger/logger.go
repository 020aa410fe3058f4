package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2" // Rotating writer for the optional log file
)

// Options controls where structured log records go.
// - Verbose: Write every record (debug and up) to stderr.
// - Level: Minimum level for the log file when not verbose ("debug", "info", "warn", "error").
// - File: Optional log file path; rotated by size when set.
// - MaxSizeMB / MaxBackups: Rotation limits for File.
type Options struct {
	Verbose    bool
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

var (
	mu      sync.RWMutex
	current = slog.New(slog.NewTextHandler(io.Discard, nil))
	closer  io.Closer
)

// Init (re)configures the package logger. Until it is called, and whenever no
// sink is selected, records are discarded.
//
// Stderr is used only in verbose mode so that normal command output stays clean.
func Init(opts Options) {
	Close()

	var writers []io.Writer
	if opts.Verbose {
		writers = append(writers, os.Stderr)
	}

	var rotating *lumberjack.Logger
	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10 // MB
		}
		maxBackups := opts.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 5
		}
		rotating = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     30, // days
			Compress:   true,
		}
		writers = append(writers, rotating)
	}

	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	mu.Lock()
	current = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	if rotating != nil {
		closer = rotating
	}
	mu.Unlock()
}

// InitWriter points the logger at w. Used by tests to capture records.
func InitWriter(w io.Writer, level slog.Level) {
	Close()
	mu.Lock()
	current = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	mu.Unlock()
}

// Close flushes and releases the log file, if one is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
}

// ParseLevel maps a config string to a slog level. Unknown or empty values
// fall back to warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// L returns the current logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Debug logs diagnostic detail, visible only with --verbose or a debug log file.
func Debug(msg string, args ...any) { L().Debug(msg, args...) }

// Info logs normal progress such as a meal being added.
func Info(msg string, args ...any) { L().Info(msg, args...) }

// Warn logs recoverable problems, e.g. a skipped duplicate during import.
func Warn(msg string, args ...any) { L().Warn(msg, args...) }

// Error logs failures that are not returned to a caller.
func Error(msg string, args ...any) { L().Error(msg, args...) }
