package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) want=%v got=%v", in, want, got)
		}
	}
}

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir, "info"); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer Close()

	Info("run finished", "rows", 2)
	Debug("hidden at info level")

	data, err := os.ReadFile(filepath.Join(dir, "cubeproc.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "run finished") || !strings.Contains(text, "rows=2") {
		t.Fatalf("missing info line: %q", text)
	}
	if strings.Contains(text, "hidden at info level") {
		t.Fatalf("debug line written at info level: %q", text)
	}
}
