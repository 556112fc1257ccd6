package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrMalformedResponse is returned when a 2xx response body is not the
// expected JSON document.
var ErrMalformedResponse = errors.New("malformed backend response")

// StatusError is returned when the backend answered with a non-2xx status.
// It carries the response of that one call only.
type StatusError struct {
	Endpoint   string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s for url: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// IsClientError reports whether the status is in the 4xx range.
func (e *StatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Detail returns the "detail" field of a JSON error body. Non-string details
// (for example validation error lists) are returned as compact JSON.
func (e *StatusError) Detail() (string, bool) {
	if len(bytes.TrimSpace(e.Body)) == 0 {
		return "", false
	}

	var body errorBody
	if err := json.Unmarshal(e.Body, &body); err != nil || body.Detail == nil {
		return "", false
	}

	raw := []byte(*body.Detail)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw), true
	}
	return buf.String(), true
}

// TransportError is returned when a call could not complete: the backend was
// unreachable, the connection dropped, or the call timed out.
type TransportError struct {
	Endpoint string
	URL      string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("POST %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call was cut short by a deadline or cancellation
// after a connection was made. A dial that times out is a failure to connect,
// not a timeout.
func (e *TransportError) Timeout() bool {
	if e.dialFailed() {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) || errors.Is(e.Err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

func (e *TransportError) dialFailed() bool {
	var opErr *net.OpError
	return errors.As(e.Err, &opErr) && opErr.Op == "dial"
}

// IsUnreachable reports whether err means the backend could not be reached
// at all (connection refused, DNS failure, reset before a response).
func IsUnreachable(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && !te.Timeout()
}
