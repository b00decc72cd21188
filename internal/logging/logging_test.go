package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWithSession(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger := WithSession(base, "sess-123")
	logger.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "session_id=sess-123") {
		t.Errorf("expected session_id in output, got: %s", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("expected message in output, got: %s", out)
	}
}

func TestWithSession_NilLogger(t *testing.T) {
	if WithSession(nil, "x") != nil {
		t.Error("WithSession(nil, ...) should return nil")
	}
	if WithComponent(nil, "x") != nil {
		t.Error("WithComponent(nil, ...) should return nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitialize_WritesFileAndConsole(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	path := filepath.Join(t.TempDir(), "nested", "gantry.log")
	var console bytes.Buffer
	if err := Initialize(Config{Level: "debug", File: path, Console: &console}); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	Get().Debug("written", "k", "v")

	if !strings.Contains(console.String(), "written") {
		t.Fatalf("console output = %q, want it to contain message", console.String())
	}
	if got := File(); got != path {
		t.Fatalf("File() = %q, want %q", got, path)
	}
	if err := Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if got := File(); got != "" {
		t.Fatalf("File() after Close = %q, want empty", got)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "k=v") {
		t.Fatalf("log file = %q, want it to contain k=v", string(data))
	}
}

func TestInitialize_JSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var console bytes.Buffer
	if err := Initialize(Config{Level: "info", JSON: true, Console: &console}); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	Get().Info("json record", "k", "v")

	if !strings.Contains(console.String(), `"msg":"json record"`) {
		t.Fatalf("console output = %q, want a JSON record", console.String())
	}
}

func TestClose_WithoutFileIsNoop(t *testing.T) {
	if err := Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}
