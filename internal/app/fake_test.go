package app

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/five82/gantry/internal/config"
)

// controllerStub answers like a healthy controller and records every request.
type controllerStub struct {
	mu       sync.Mutex
	bodies   map[string]string
	requests []stubRequest
}

type stubRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newControllerStub() *controllerStub {
	return &controllerStub{bodies: map[string]string{
		"/api/timeline": `{"timelines":[{"num":1,"name":"Intro","state":"running","onstage":true}]}`,
		"/api/group":    `{"groups":[{"num":2,"name":"Stage","level":50}],"spaces":[{"num":1,"name":"Lobby","intensity_master":0.5}]}`,
		"/api/scene":    `{"scenes":[{"num":4,"name":"Warm","state":"none"}]}`,
		"/api/trigger":  `{"triggers":[{"num":7,"name":"Doorbell","type":"Digital Input"}]}`,
	}}
}

func (s *controllerStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := stubRequest{Method: r.Method, Path: r.URL.Path}
	if r.Method == http.MethodPost && r.URL.Path != "/authenticate" {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &req.Body)
	}
	s.mu.Lock()
	s.requests = append(s.requests, req)
	body, ok := s.bodies[r.URL.Path]
	s.mu.Unlock()

	switch {
	case r.URL.Path == "/authenticate":
		_, _ = io.WriteString(w, `{"token":"abc123"}`)
	case r.URL.Path == "/logout":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPost:
		w.WriteHeader(http.StatusNoContent)
	case ok:
		_, _ = io.WriteString(w, body)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *controllerStub) calls(method, path string) []stubRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []stubRequest
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// stubConfig starts stub and returns a config pointing at it.
func stubConfig(t *testing.T, stub *controllerStub, personality string) config.Config {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Atoi(%q): %v", portStr, err)
	}

	cfg := config.Default()
	cfg.Host = host
	cfg.Port = port
	cfg.Personality = personality
	cfg.Keepalive = time.Hour
	cfg.RequestTimeout = 2 * time.Second
	cfg.LogFile = ""
	return cfg
}
