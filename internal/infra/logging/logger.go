// Package logging writes board activity to plain-text log files.
// Every entry goes to the global log (<dataDir>/logs/schedule.log);
// entries about a specific item are also appended to <dataDir>/logs/item-N.log.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/schedule/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger appends formatted entries to log files under a data directory.
// Fields are ordered to minimize memory padding.
type Logger struct {
	files   map[string]*os.File
	now     func() time.Time
	dataDir string
	mu      sync.Mutex
	level   slog.Level
}

// New creates a Logger writing below dataDir.
// If dataDir is empty, logging is disabled.
func New(dataDir string, level slog.Level) *Logger {
	return &Logger{
		files:   make(map[string]*os.File),
		now:     time.Now,
		dataDir: dataDir,
		level:   level,
	}
}

// ParseLevel parses a log level name. Unknown names map to info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// open returns the append handle for path. Caller must hold l.mu.
func (l *Logger) open(path string) (*os.File, error) {
	if f, ok := l.files[path]; ok {
		return f, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.files[path] = f
	return f, nil
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	for path, f := range l.files {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.files, path)
	}
	return lastErr
}

// formatLog renders one entry.
// Format: [2025-12-30 09:32:51] [INFO] [item-1] [category] message
func formatLog(t time.Time, level slog.Level, itemID int, category, msg string) string {
	scope := "global"
	if itemID > 0 {
		scope = fmt.Sprintf("item-%d", itemID)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelName(level),
		scope,
		category,
		msg,
	)
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// write appends entry to the global log and, for itemID > 0, the item log.
func (l *Logger) write(itemID int, entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, err := l.open(domain.GlobalLogPath(l.dataDir)); err == nil {
		_, _ = io.WriteString(f, entry)
	}
	if itemID > 0 {
		if f, err := l.open(domain.ItemLogPath(l.dataDir, itemID)); err == nil {
			_, _ = io.WriteString(f, entry)
		}
	}
}

func (l *Logger) log(level slog.Level, itemID int, category, msg string) {
	if l.dataDir == "" || level < l.level {
		return
	}
	l.write(itemID, formatLog(l.now(), level, itemID, category, msg))
}

// Debug logs a debug message.
func (l *Logger) Debug(itemID int, category, msg string) {
	l.log(slog.LevelDebug, itemID, category, msg)
}

// Info logs an info message.
func (l *Logger) Info(itemID int, category, msg string) {
	l.log(slog.LevelInfo, itemID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(itemID int, category, msg string) {
	l.log(slog.LevelWarn, itemID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(itemID int, category, msg string) {
	l.log(slog.LevelError, itemID, category, msg)
}

// Writer returns an io.Writer appending raw lines to the global log.
// It discards everything when logging is disabled.
func (l *Logger) Writer() io.Writer {
	if l.dataDir == "" {
		return io.Discard
	}
	return globalWriter{l: l}
}

type globalWriter struct {
	l *Logger
}

func (w globalWriter) Write(p []byte) (int, error) {
	w.l.write(0, string(p))
	return len(p), nil
}
