package outcome

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/calassist/internal/backend"
)

func statusErr(code int, body string) *backend.StatusError {
	return &backend.StatusError{
		Endpoint:   backend.PathChat,
		URL:        "http://localhost:8000/chat",
		StatusCode: code,
		Body:       []byte(body),
	}
}

func TestDetail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"json string detail", statusErr(400, `{"detail": "bad token"}`), "bad token"},
		{"json list detail", statusErr(422, `{"detail": [{"msg": "field required"}]}`), `[{"msg":"field required"}]`},
		{"json without detail", statusErr(400, `{"error": "nope"}`), "400 Bad Request for url: http://localhost:8000/chat"},
		{"json null detail", statusErr(400, `{"detail": null}`), "400 Bad Request for url: http://localhost:8000/chat"},
		{"json scalar body", statusErr(400, `"nope"`), "400 Bad Request for url: http://localhost:8000/chat"},
		{"plain text body", statusErr(404, "  Not Found\n"), "Not Found"},
		{"empty body", statusErr(401, ""), "401 Unauthorized for url: http://localhost:8000/chat"},
		{"wrapped 4xx", fmt.Errorf("chat: %w", statusErr(400, `{"detail": "wrapped"}`)), "wrapped"},
		{"5xx ignores body", statusErr(500, `{"detail": "db down"}`), "500 Internal Server Error for url: http://localhost:8000/chat"},
		{"plain error", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detail(tt.err))
		})
	}
}

func TestDetail_OnlyInspectsGivenError(t *testing.T) {
	first := statusErr(400, `{"detail": "first"}`)
	second := statusErr(400, "")

	assert.Equal(t, "first", Detail(first))
	assert.Equal(t, second.Error(), Detail(second))
}

func TestClassify(t *testing.T) {
	transport := &backend.TransportError{Endpoint: backend.PathChat, Err: errors.New("connection refused")}
	timeout := &backend.TransportError{Endpoint: backend.PathChat, Err: context.DeadlineExceeded}

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindSuccess},
		{"4xx", statusErr(400, ""), KindBackendRejection},
		{"499", statusErr(499, ""), KindBackendRejection},
		{"5xx", statusErr(503, ""), KindUnknown},
		{"3xx", statusErr(302, ""), KindUnknown},
		{"transport", transport, KindTransport},
		{"timeout", timeout, KindTransport},
		{"malformed", fmt.Errorf("%w from /chat: eof", backend.ErrMalformedResponse), KindTransport},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
