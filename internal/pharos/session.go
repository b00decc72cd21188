package pharos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/five82/gantry/internal/logging"
)

const (
	defaultScheme         = "http"
	defaultUserAgent      = "gantry/0.1"
	defaultRequestTimeout = 10 * time.Second
	maxResponseBytes      = 8 << 20

	authenticatePath = "/authenticate"
	logoutPath       = "/logout"
	groupPath        = "/api/group"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Session.
type Option func(*Session)

// WithHTTPClient replaces the transport used for every request.
func WithHTTPClient(d Doer) Option {
	return func(s *Session) {
		if d != nil {
			s.http = d
		}
	}
}

// WithScheme sets the URL scheme, "http" by default.
func WithScheme(scheme string) Option {
	return func(s *Session) {
		if scheme != "" {
			s.scheme = scheme
		}
	}
}

// WithPort targets a non-default controller port.
func WithPort(port int) Option {
	return func(s *Session) {
		s.port = port
	}
}

// WithKeepaliveInterval overrides the token refresh interval.
func WithKeepaliveInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithRequestTimeout bounds each request. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the base logger; the session adds its own attributes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Session) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// errNoHost is reported by a generic client used before Authenticate gave
// it an address.
var errNoHost = errors.New("no controller address; authenticate first")

// Session owns the controller address, the bearer token and the keepalive
// loop for one controller connection. It is safe for concurrent use;
// concurrent reads race on token refresh and the last response wins.
type Session struct {
	mu        sync.Mutex
	host      string
	token     string
	keepalive *keepalive
	status    KeepaliveStatus

	id        string
	scheme    string
	port      int
	interval  time.Duration
	timeout   time.Duration
	userAgent string
	http      Doer
	logger    *slog.Logger

	live atomic.Int32
}

// NewSession creates an unauthenticated session for host. The host is not
// validated until Authenticate.
func NewSession(host string, opts ...Option) *Session {
	s := &Session{
		host:      host,
		id:        uuid.NewString(),
		scheme:    defaultScheme,
		interval:  DefaultKeepaliveInterval,
		timeout:   defaultRequestTimeout,
		userAgent: defaultUserAgent,
		http:      &http.Client{},
		logger:    logging.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.WithSession(s.logger, s.id)
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Host returns the controller address.
func (s *Session) Host() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Authenticated reports whether the session holds a token.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// KeepaliveActive reports whether a keepalive loop is scheduled.
func (s *Session) KeepaliveActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keepalive != nil
}

// KeepaliveStatus returns the outcome of recent keepalive ticks.
func (s *Session) KeepaliveStatus() KeepaliveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Active = s.keepalive != nil
	return st
}

func (s *Session) setHost(host string) {
	s.mu.Lock()
	s.host = host
	s.mu.Unlock()
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Authenticate logs in with the stored host. Any running keepalive is
// cancelled first; on success a new one starts and ticks once immediately
// in the background.
func (s *Session) Authenticate(ctx context.Context, username, password string) error {
	const op = "authenticate"
	host := s.Host()
	if !ValidHost(host) {
		s.logger.Warn("rejecting controller address", "host", host)
		return invalidHostError(op, host)
	}

	s.stopKeepalive()
	s.setToken("")

	body, contentType, err := authForm(username, password)
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, Message: "build form", Err: err}
	}
	header := http.Header{}
	header.Set("Content-Type", contentType)

	status, respBody, err := s.send(ctx, http.MethodPost, authenticatePath, body, header)
	res, err := normalize(op, true, status, respBody, err)
	if err != nil {
		s.logger.Warn("authentication failed", "host", host, "error", err)
		return err
	}
	if res.Token == "" {
		s.logger.Warn("authentication response carried no token", "host", host, "status", res.Status)
		return &Error{Op: op, Kind: KindTokenMissing, Status: res.Status, Message: "Error with token"}
	}

	s.setToken(res.Token)
	s.startKeepalive()
	s.logger.Info("authenticated", "host", host, "keepalive", s.interval)
	return nil
}

// Logout ends the controller session. On success the keepalive is cancelled
// and the token cleared; on failure both are left as they were.
func (s *Session) Logout(ctx context.Context) error {
	const op = "logout"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.Token())

	status, body, err := s.send(ctx, http.MethodGet, logoutPath, nil, header)
	if _, err := normalize(op, false, status, body, err); err != nil {
		s.logger.Warn("logout failed", "host", s.Host(), "error", err)
		return err
	}

	s.stopKeepalive()
	s.setToken("")
	s.logger.Info("logged out", "host", s.Host())
	return nil
}

// Close cancels the keepalive without contacting the controller. It is
// safe to call more than once.
func (s *Session) Close() {
	s.stopKeepalive()
}

// Invoke sends an authenticated request and normalizes the response. A
// non-nil payload is sent as JSON. GET responses that carry a token
// replace the session token.
func (s *Session) Invoke(ctx context.Context, method, path string, payload any) (Result, error) {
	op := method + " " + path

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return Result{}, &Error{Op: op, Kind: KindInvalidRequest, Message: "encode payload", Err: err}
		}
		body = bytes.NewReader(encoded)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Authorization", "Bearer "+s.Token())

	status, respBody, err := s.send(ctx, method, path, body, header)
	res, err := normalize(op, method == http.MethodGet, status, respBody, err)
	if err != nil {
		s.logger.Debug("controller request failed", "op", op, "error", err)
		return Result{}, err
	}
	if res.Token != "" {
		s.setToken(res.Token)
	}
	return res, nil
}

func (s *Session) startKeepalive() {
	s.mu.Lock()
	prev := s.keepalive
	s.keepalive = nil
	s.status = KeepaliveStatus{}
	s.mu.Unlock()
	prev.stop()

	ka := startKeepalive(s.interval, &s.live, s.poll)

	s.mu.Lock()
	raced := s.keepalive
	s.keepalive = ka
	s.mu.Unlock()
	raced.stop()
}

func (s *Session) stopKeepalive() {
	s.mu.Lock()
	prev := s.keepalive
	s.keepalive = nil
	s.mu.Unlock()
	prev.stop()
}

// poll is the keepalive tick: a cheap read whose response refreshes the
// token. Failures are recorded; the schedule is never changed.
func (s *Session) poll(ctx context.Context) {
	_, err := s.Invoke(ctx, http.MethodGet, groupPath, nil)
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	s.status.Ticks++
	s.status.LastTick = time.Now()
	s.status.LastError = err
	if err != nil {
		s.status.ConsecutiveFailures++
	} else {
		s.status.ConsecutiveFailures = 0
	}
	failures := s.status.ConsecutiveFailures
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("keepalive poll failed", "error", err, "consecutive_failures", failures)
		return
	}
	s.logger.Debug("keepalive poll ok")
}

func (s *Session) send(ctx context.Context, method, path string, body io.Reader, header http.Header) (int, []byte, error) {
	reqURL, err := s.resolve(path)
	if err != nil {
		return 0, nil, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

func (s *Session) resolve(path string) (string, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", path, err)
	}
	s.mu.Lock()
	host := s.host
	s.mu.Unlock()
	if host == "" {
		return "", errNoHost
	}
	if s.port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(s.port))
	}
	base := &url.URL{Scheme: s.scheme, Host: host}
	return base.ResolveReference(rel).String(), nil
}

func authForm(username, password string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("username", username); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("password", password); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
