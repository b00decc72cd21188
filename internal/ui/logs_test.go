package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/gantry/internal/pharos"
	"github.com/five82/gantry/internal/state"
)

func TestLogView_ReadsTail(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "gantry.log")
	content := strings.Join([]string{
		`time=2026-03-01T10:00:00Z level=INFO msg="authenticated" host=192.168.1.100`,
		`time=2026-03-01T10:04:30Z level=INFO msg="keepalive ok"`,
	}, "\n") + "\n"
	if err := os.WriteFile(logFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	m := New(Options{
		Controller: &fakeController{personality: pharos.PersonalityExpert},
		Store:      &state.Store{},
		LogFile:    logFile,
		StartView:  "log",
		PrefsPath:  filepath.Join(dir, "prefs.toml"),
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 20})

	msg := readLogCmd(logFile)()
	m = update(t, m, msg)
	if len(m.logLines) != 2 {
		t.Fatalf("logLines = %d, want 2", len(m.logLines))
	}
	if out := m.View(); !strings.Contains(out, "keepalive ok") {
		t.Fatalf("log view missing latest record")
	}
}

func TestLogView_NoFile(t *testing.T) {
	msg, ok := readLogCmd("")().(logLinesMsg)
	if !ok {
		t.Fatalf("readLogCmd returned %T", msg)
	}
	if msg.err != nil || len(msg.lines) != 0 {
		t.Fatalf("empty path = %+v, want no lines", msg)
	}

	missing, _ := readLogCmd(filepath.Join(t.TempDir(), "absent.log"))().(logLinesMsg)
	if missing.err != nil {
		t.Fatalf("missing file err = %v, want nil", missing.err)
	}
}
