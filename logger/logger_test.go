package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSetupDisabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, closer, err := Setup(Config{Enabled: false, Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	l.Info("dropped")
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("log dir created while disabled")
	}
}

func TestSetupEnabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, closer, err := Setup(Config{Enabled: true, Dir: dir, Level: "debug"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	l, id := WithSession(l)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("session id %q: %v", id, err)
	}
	l.Debug("cell updated", "row", "0.0.0")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, DefaultFile))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "cell updated") || !strings.Contains(out, "session="+id) {
		t.Errorf("log = %q", out)
	}
}

func TestSetupRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	if err := os.WriteFile(path, make([]byte, maxLogSize+1), 0o644); err != nil {
		t.Fatal(err)
	}

	_, closer, err := Setup(Config{Enabled: true, Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	rotated := false
	for _, e := range entries {
		if e.Name() != DefaultFile && filepath.Ext(e.Name()) == ".log" {
			rotated = true
		}
	}
	if !rotated {
		t.Error("expected rotated log file")
	}
	if info, _ := os.Stat(path); info.Size() > maxLogSize {
		t.Errorf("new log size = %d", info.Size())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
