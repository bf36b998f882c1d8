// Package logging holds the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It discards all output until Init is
// called, so library code can log unconditionally.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	logPrefix     = "uaparse-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger.
type Options struct {
	Level  string    // debug, info, warn, error. Default info
	Format string    // text or json. Default text
	Writer io.Writer // destination when LogDir is empty. Default os.Stderr
	LogDir string    // when set, log to a dated file in this directory instead
}

// Init installs the global logger. It returns a close function for the log
// file, which is a no-op when logging to Writer.
func Init(opts Options) (func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	closer := func() error { return nil }
	if opts.LogDir != "" {
		f, err := openLogFile(opts.LogDir, time.Now())
		if err != nil {
			return nil, err
		}
		w, closer = f, f.Close
	}

	hopts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(opts.Format) {
	case "", "text":
		L = slog.New(slog.NewTextHandler(w, hopts))
	case "json":
		L = slog.New(slog.NewJSONHandler(w, hopts))
	default:
		_ = closer()
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	return closer, nil
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func openLogFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	cleanOldLogs(dir, now)
	name := filepath.Join(dir, logPrefix+now.Format("2006-01-02")+logSuffix)
	return os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// cleanOldLogs removes log files older than retentionDays. Best effort.
func cleanOldLogs(dir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		day, err := time.Parse("2006-01-02", strings.TrimSuffix(strings.TrimPrefix(name, logPrefix), logSuffix))
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}

// Debug logs at debug level on L.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at info level on L.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at warn level on L.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at error level on L.
func Error(msg string, args ...any) { L.Error(msg, args...) }
