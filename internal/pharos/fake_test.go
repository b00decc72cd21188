package pharos

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recorded is one request seen by fakeController.
type recorded struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
	Body   []byte
	Form   url.Values
}

// fakeController is a scripted controller. Zero status fields use the
// values a healthy controller would answer with.
type fakeController struct {
	mu sync.Mutex

	authStatus    int
	authBody      string
	logoutStatus  int
	listStatus    int
	listBodies    map[string]string
	controlStatus int

	requests []recorded
}

func newFakeController() *fakeController {
	return &fakeController{
		authStatus:    http.StatusOK,
		authBody:      `{"token":"abc123"}`,
		logoutStatus:  http.StatusOK,
		listStatus:    http.StatusOK,
		listBodies:    map[string]string{},
		controlStatus: http.StatusNoContent,
	}
}

func (f *fakeController) set(fn func(f *fakeController)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Auth:   r.Header.Get("Authorization"),
	}
	if r.URL.Path == authenticatePath {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			rec.Form = r.MultipartForm.Value
		}
	} else {
		rec.Body, _ = io.ReadAll(r.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	authStatus, authBody := f.authStatus, f.authBody
	logoutStatus := f.logoutStatus
	listStatus, listBody := f.listStatus, f.listBodies[r.URL.Path]
	controlStatus := f.controlStatus
	f.mu.Unlock()

	switch {
	case r.URL.Path == authenticatePath:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(authStatus)
		_, _ = io.WriteString(w, authBody)
	case r.URL.Path == logoutPath:
		w.WriteHeader(logoutStatus)
	case r.Method == http.MethodGet:
		if listBody == "" {
			listBody = `{}`
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(listStatus)
		_, _ = io.WriteString(w, listBody)
	default:
		w.WriteHeader(controlStatus)
	}
}

// requestsTo returns the recorded requests for path.
func (f *fakeController) requestsTo(path string) []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recorded
	for _, r := range f.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// startFake serves fc and returns the options that point a session at it.
func startFake(t *testing.T, fc *fakeController, extra ...Option) (string, []Option) {
	t.Helper()
	srv := httptest.NewServer(fc)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	opts := []Option{
		WithPort(port),
		WithHTTPClient(srv.Client()),
		WithKeepaliveInterval(time.Hour),
		WithRequestTimeout(2 * time.Second),
	}
	return u.Hostname(), append(opts, extra...)
}

// countingDoer fails every request and counts how many were attempted.
type countingDoer struct {
	calls atomic.Int32
}

func (d *countingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return nil, errors.New("unexpected request")
}
