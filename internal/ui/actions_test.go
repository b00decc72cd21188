package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/five82/gantry/internal/pharos"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"50", 50, false},
		{"50%", 50, false},
		{" 12.5 % ", 12.5, false},
		{"0", 0, false},
		{"100", 100, false},
		{"101", 0, true},
		{"-1", 0, true},
		{"half", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := map[float64]string{
		80:                "80%",
		12.5:              "12.5%",
		80.00000000000001: "80%",
		0:                 "0%",
		33.333:            "33.3%",
	}
	for in, want := range tests {
		if got := formatPercent(in); got != want {
			t.Fatalf("formatPercent(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestClampLevel(t *testing.T) {
	if got := clampLevel(110); got != 100 {
		t.Fatalf("clampLevel(110) = %v, want 100", got)
	}
	if got := clampLevel(-5); got != 0 {
		t.Fatalf("clampLevel(-5) = %v, want 0", got)
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&pharos.Error{Kind: pharos.KindInvalidRequest}, "rejected by controller (invalid request)"},
		{&pharos.Error{Kind: pharos.KindAuthOrServer, Status: 401}, "controller refused (status 401)"},
		{&pharos.Error{Kind: pharos.KindAuthOrServer}, "controller refused"},
		{fmt.Errorf("wrapped: %w", &pharos.Error{Kind: pharos.KindNetwork}), "controller unreachable"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		if got := describeError(tt.err); got != tt.want {
			t.Fatalf("describeError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Stage Wash", 20, "Stage Wash"},
		{"Stage Wash", 6, "Stage…"},
		{"Stage Wash", 1, "S"},
		{"Stage Wash", 0, ""},
		{"Éclairage", 4, "Écl…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTheme_StatusColor(t *testing.T) {
	theme := GetTheme("Kanagawa")
	if got := theme.StatusColor("Holding At End"); got != theme.StatusColors["holding_at_end"] {
		t.Fatalf("StatusColor(Holding At End) = %q, want %q", got, theme.StatusColors["holding_at_end"])
	}
	if got := theme.StatusColor("mystery"); got != theme.Text {
		t.Fatalf("StatusColor(mystery) = %q, want text color %q", got, theme.Text)
	}
}

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	name := names[0]
	for range names {
		name = NextTheme(name)
	}
	if name != names[0] {
		t.Fatalf("after a full cycle theme = %q, want %q", name, names[0])
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
	if got := GetTheme("unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown) = %q, want Nightfox", got)
	}
}

func TestColorizeLogLine(t *testing.T) {
	m := New(Options{PrefsPath: t.TempDir() + "/prefs.toml"})
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)

	line := `time=2026-03-01T10:15:30.123Z level=WARN msg="keepalive failed" component=session error="dial tcp: timeout"`
	out := m.colorizeLogLine(line, styles, bg)
	for _, want := range []string{"10:15:30", "WARN", "keepalive failed", "component=", "dial tcp: timeout"} {
		if !strings.Contains(out, want) {
			t.Fatalf("colorizeLogLine missing %q in %q", want, out)
		}
	}

	plain := m.colorizeLogLine("panic: something odd", styles, bg)
	if !strings.Contains(plain, "panic: something odd") {
		t.Fatalf("non-record line lost its text: %q", plain)
	}
}

func TestShortTime(t *testing.T) {
	if got := shortTime("2026-03-01T10:15:30.123Z"); got != "10:15:30" {
		t.Fatalf("shortTime = %q, want 10:15:30", got)
	}
	if got := shortTime("yesterday"); got != "yesterday" {
		t.Fatalf("shortTime = %q, want input unchanged", got)
	}
}
