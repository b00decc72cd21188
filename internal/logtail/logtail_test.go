package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "gantry.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Entry
	}{
		{
			name:  "plain line",
			input: "not a record",
			want:  Entry{Message: "not a record"},
		},
		{
			name:  "empty line",
			input: "",
			want:  Entry{Message: ""},
		},
		{
			name:  "bare message",
			input: "time=2026-10-19T09:30:00.000Z level=INFO msg=authenticated host=192.168.1.100",
			want: Entry{
				Time:    "2026-10-19T09:30:00.000Z",
				Level:   "INFO",
				Message: "authenticated",
				Attrs:   []Attr{{Key: "host", Value: "192.168.1.100"}},
			},
		},
		{
			name:  "quoted values",
			input: `time=2026-10-19T09:30:01.000Z level=WARN msg="keepalive failed" error="GET /api/group: request failed: dial tcp: i/o timeout" failures=2`,
			want: Entry{
				Time:    "2026-10-19T09:30:01.000Z",
				Level:   "WARN",
				Message: "keepalive failed",
				Attrs: []Attr{
					{Key: "error", Value: "GET /api/group: request failed: dial tcp: i/o timeout"},
					{Key: "failures", Value: "2"},
				},
			},
		},
		{
			name:  "lowercase level",
			input: "level=debug msg=tick",
			want:  Entry{Level: "DEBUG", Message: "tick"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEntry_Attr(t *testing.T) {
	e := Parse(`level=INFO msg=ok session_id=abc component=refresher`)
	if v, ok := e.Attr("component"); !ok || v != "refresher" {
		t.Fatalf("Attr(component) = %q, %v, want refresher, true", v, ok)
	}
	if _, ok := e.Attr("missing"); ok {
		t.Fatalf("Attr(missing) ok = true, want false")
	}
}
