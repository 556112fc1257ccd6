package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/calassist/internal/instrumentation"
	"github.com/teemow/calassist/internal/logging"
)

// DefaultBaseURL is the address the backend listens on in local development.
const DefaultBaseURL = "http://localhost:8000"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client talks to the assistant backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for backend calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets an overall timeout per call. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    normalized,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithComponent(c.logger, "backend")

	return c, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("backend base URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid backend base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid backend base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid backend base URL %q: missing host", raw)
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ConfigureCalendar forwards calendar credentials for the given session.
// The session identifier travels in the X-Session-ID header, never in the body.
func (c *Client) ConfigureCalendar(ctx context.Context, sessionID string, req ConfigureCalendarRequest) (*ConfigureCalendarResponse, error) {
	headers := http.Header{}
	headers.Set(SessionHeader, sessionID)

	var resp ConfigureCalendarResponse
	if err := c.post(ctx, PathConfigureCalendar, sessionID, headers, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chat relays one user message and returns the backend reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.post(ctx, PathChat, req.SessionID, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// post sends body as JSON to endpoint and decodes a 2xx response into out.
// An empty 2xx body leaves out untouched.
func (c *Client) post(ctx context.Context, endpoint, sessionID string, headers http.Header, body, out any) (err error) {
	target := c.baseURL + endpoint
	start := time.Now()
	statusCode := 0

	ctx, span := instrumentation.StartBackendSpan(ctx, endpoint,
		attribute.String(instrumentation.SpanAttrBackendURL, c.baseURL),
		attribute.String(instrumentation.SpanAttrSessionHash, logging.AnonymizeSession(sessionID)),
	)
	defer func() {
		duration := time.Since(start)
		c.metrics.RecordBackendRequest(ctx, endpoint, statusCode, duration)
		if statusCode != 0 {
			span.SetAttributes(attribute.Int(instrumentation.SpanAttrStatusCode, statusCode))
		}
		instrumentation.EndSpan(span, err)

		c.logger.Debug("backend call finished",
			logging.Endpoint(endpoint),
			logging.SessionHash(sessionID),
			logging.StatusCode(statusCode),
			slog.Duration(logging.KeyDuration, duration),
			logging.Err(err))
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, URL: target, Err: err}
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Endpoint: endpoint, URL: target, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Endpoint:   endpoint,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       data,
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w from %s: %v", ErrMalformedResponse, endpoint, err)
	}
	return nil
}
