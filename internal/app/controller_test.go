package app

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/five82/gantry/internal/pharos"
)

func TestNewController_RejectsUnknownPersonality(t *testing.T) {
	cfg := stubConfig(t, newControllerStub(), "architect")
	if _, err := NewController(cfg); err == nil {
		t.Fatalf("NewController returned nil error, want personality error")
	}
}

func TestController_FetchByPersonality(t *testing.T) {
	tests := []struct {
		personality string
		timelines   int
		groups      int
		scenes      int
		triggers    int
		spaces      int
	}{
		{"designer", 1, 1, 1, 1, 0},
		{"generic", 1, 1, 1, 0, 0},
		{"expert", 0, 0, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.personality, func(t *testing.T) {
			cfg := stubConfig(t, newControllerStub(), tt.personality)
			ctrl, err := NewController(cfg)
			if err != nil {
				t.Fatalf("NewController: %v", err)
			}
			t.Cleanup(ctrl.Close)

			ctx := context.Background()
			if err := ctrl.Authenticate(ctx, "admin", "pharos"); err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			lists, err := ctrl.Fetch(ctx)
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			got := []int{len(lists.Timelines), len(lists.Groups), len(lists.Scenes), len(lists.Triggers), len(lists.Spaces)}
			want := []int{tt.timelines, tt.groups, tt.scenes, tt.triggers, tt.spaces}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("list sizes = %v, want %v", got, want)
				}
			}
		})
	}
}

func TestController_GenericAdoptsConfiguredHost(t *testing.T) {
	cfg := stubConfig(t, newControllerStub(), "generic")
	ctrl, err := NewController(cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	t.Cleanup(ctrl.Close)

	if ctrl.Host() != cfg.Host {
		t.Fatalf("Host() = %q before auth, want %q", ctrl.Host(), cfg.Host)
	}
	if _, err := uuid.Parse(ctrl.SessionID()); err != nil {
		t.Fatalf("SessionID() = %q, want a UUID: %v", ctrl.SessionID(), err)
	}
	if err := ctrl.Authenticate(context.Background(), "admin", "pharos"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !ctrl.Authenticated() || !ctrl.KeepaliveStatus().Active {
		t.Fatalf("Authenticated=%v keepalive=%+v, want both active", ctrl.Authenticated(), ctrl.KeepaliveStatus())
	}
}

func TestController_UnsupportedCommandsSendNothing(t *testing.T) {
	stub := newControllerStub()
	cfg := stubConfig(t, stub, "expert")
	ctrl, err := NewController(cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	t.Cleanup(ctrl.Close)
	ctx := context.Background()

	if err := ctrl.FireTrigger(ctx, 1); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("FireTrigger error = %v, want ErrUnsupported", err)
	}
	if err := ctrl.Timeline(ctx, pharos.TimelineStart, 1); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Timeline error = %v, want ErrUnsupported", err)
	}
	if _, err := ctrl.ListGroups(ctx, ""); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("ListGroups error = %v, want ErrUnsupported", err)
	}
	if n := len(stub.calls(http.MethodPost, "/api/trigger")) + len(stub.calls(http.MethodPost, "/api/timeline")); n != 0 {
		t.Fatalf("unsupported commands sent %d requests, want 0", n)
	}
}

func TestController_CommandPayloads(t *testing.T) {
	stub := newControllerStub()
	cfg := stubConfig(t, stub, "designer")
	ctrl, err := NewController(cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	t.Cleanup(ctrl.Close)
	ctx := context.Background()

	if err := ctrl.Authenticate(ctx, "admin", "pharos"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := ctrl.Timeline(ctx, pharos.TimelinePause, 1); err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if err := ctrl.Scene(ctx, pharos.SceneToggle, 4); err != nil {
		t.Fatalf("Scene: %v", err)
	}
	if err := ctrl.SetLevel(ctx, 2, "60%"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if err := ctrl.FireTrigger(ctx, 7); err != nil {
		t.Fatalf("FireTrigger: %v", err)
	}

	tests := []struct {
		path   string
		action string
		num    float64
	}{
		{"/api/timeline", "pause", 1},
		{"/api/scene", "toggle", 4},
		{"/api/group", "master_intensity", 2},
		{"/api/trigger", "fire", 7},
	}
	for _, tt := range tests {
		calls := stub.calls(http.MethodPost, tt.path)
		if len(calls) != 1 {
			t.Fatalf("POST %s calls = %d, want 1", tt.path, len(calls))
		}
		body := calls[0].Body
		if body["action"] != tt.action || body["num"] != tt.num {
			t.Fatalf("POST %s body = %v, want action=%s num=%v", tt.path, body, tt.action, tt.num)
		}
	}
	if level := stub.calls(http.MethodPost, "/api/group")[0].Body["level"]; level != "60%" {
		t.Fatalf("level = %v, want 60%%", level)
	}
}

func TestController_ExpertLevelTargetsSpaces(t *testing.T) {
	stub := newControllerStub()
	cfg := stubConfig(t, stub, "expert")
	ctrl, err := NewController(cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	t.Cleanup(ctrl.Close)

	if err := ctrl.SetLevel(context.Background(), 1, 40); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	calls := stub.calls(http.MethodPost, "/api/group")
	if len(calls) != 1 || calls[0].Body["action"] != "master_intensity" {
		t.Fatalf("POST /api/group calls = %+v, want one master_intensity", calls)
	}
}
