// Package logger sets up file logging; the terminal owns stdout so logs never go there.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultDir  = "logs"
	DefaultFile = "kn.log"

	// Files above this size are rotated on startup
	maxLogSize = 10 * 1024 * 1024
)

// Config selects where and how much to log
type Config struct {
	Enabled bool
	Dir     string
	File    string
	Level   string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Setup opens the log file when enabled, rotating an oversized one.
// Disabled logging returns a discarding logger.
func Setup(cfg Config) (*slog.Logger, io.Closer, error) {
	if !cfg.Enabled {
		return Discard(), nopCloser{}, nil
	}

	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir
	}
	name := cfg.File
	if name == "" {
		name = DefaultFile
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := rotate(path); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	return slog.New(h), f, nil
}

func rotate(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxLogSize {
		return nil
	}
	ext := filepath.Ext(path)
	rotated := strings.TrimSuffix(path, ext) + "-" + time.Now().Format("20060102-150405") + ext
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}

// ParseLevel maps debug|info|warn|error; anything else is info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// WithSession tags every record with a fresh session id
func WithSession(l *slog.Logger) (*slog.Logger, string) {
	id := uuid.NewString()
	return l.With("session", id), id
}
