package pharos

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies every failure a controller operation can report.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindInvalidHostFormat is a precondition failure; no request was sent.
	KindInvalidHostFormat
	// KindInvalidRequest maps HTTP 400.
	KindInvalidRequest
	// KindAuthOrServer covers every other non-success status.
	KindAuthOrServer
	// KindNetwork covers transport failures and undecodable 2xx bodies.
	KindNetwork
	// KindTokenMissing is a 2xx authenticate response without a token.
	KindTokenMissing
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidHostFormat:
		return "invalid_host_format"
	case KindInvalidRequest:
		return "invalid_request"
	case KindAuthOrServer:
		return "auth_or_server_error"
	case KindNetwork:
		return "network_error"
	case KindTokenMissing:
		return "token_missing"
	default:
		return "unknown"
	}
}

// Sentinel errors for errors.Is comparisons against a kind.
var (
	ErrInvalidHostFormat = &Error{Kind: KindInvalidHostFormat}
	ErrInvalidRequest    = &Error{Kind: KindInvalidRequest}
	ErrAuthOrServer      = &Error{Kind: KindAuthOrServer}
	ErrNetwork           = &Error{Kind: KindNetwork}
	ErrTokenMissing      = &Error{Kind: KindTokenMissing}
)

// Error is the failure half of every controller operation.
type Error struct {
	Op      string
	Kind    ErrorKind
	Status  int // HTTP status when one was received
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	b.WriteString(msg)
	if e.Status != 0 && e.Kind == KindAuthOrServer {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the ErrorKind carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// Result is the success half of a controller operation.
type Result struct {
	Status int
	Body   []byte
	// Token is set when a read response carried a refreshed token.
	Token string
}

// Decode unmarshals the payload into dest.
func (r Result) Decode(dest any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// tokenEnvelope picks the refreshed token out of a read response. Only a
// non-empty string is adopted; any other token value is ignored.
type tokenEnvelope struct {
	Token json.RawMessage `json:"token"`
}

func (e tokenEnvelope) token() string {
	var tok string
	if len(e.Token) == 0 || json.Unmarshal(e.Token, &tok) != nil {
		return ""
	}
	return tok
}

// normalize maps one HTTP exchange onto Result or *Error. It is used
// identically by every request the session sends. Bodies of 2xx responses
// are only decoded when readBody is set; control endpoints answer 204 and
// their success is recognized from the status alone.
func normalize(op string, readBody bool, status int, body []byte, transportErr error) (Result, error) {
	if transportErr != nil {
		return Result{}, &Error{Op: op, Kind: KindNetwork, Message: "request failed", Err: transportErr}
	}
	switch {
	case status == http.StatusNoContent:
		return Result{Status: status}, nil
	case status >= 200 && status < 300:
		res := Result{Status: status}
		if !readBody {
			return res, nil
		}
		res.Body = body
		if len(body) == 0 {
			return res, nil
		}
		var env tokenEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return Result{}, &Error{Op: op, Kind: KindNetwork, Status: status, Message: "decode response", Err: err}
		}
		res.Token = env.token()
		return res, nil
	case status == http.StatusBadRequest:
		return Result{}, &Error{Op: op, Kind: KindInvalidRequest, Status: status, Message: "Invalid request"}
	default:
		return Result{}, &Error{Op: op, Kind: KindAuthOrServer, Status: status, Message: "Authentication failed"}
	}
}
