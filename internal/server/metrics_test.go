package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calassist/internal/instrumentation"
)

func newProvider(t *testing.T, enabled bool, exporter string) *instrumentation.Provider {
	t.Helper()

	p, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		ServiceName:     "calassist-test",
		ServiceVersion:  "test",
		Enabled:         enabled,
		MetricsExporter: exporter,
		TracingExporter: instrumentation.ExporterNone,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p
}

func TestNewMetricsServer(t *testing.T) {
	tests := []struct {
		name        string
		provider    func(t *testing.T) *instrumentation.Provider
		errContains string
	}{
		{
			name:     "prometheus provider",
			provider: func(t *testing.T) *instrumentation.Provider { return newProvider(t, true, instrumentation.ExporterPrometheus) },
		},
		{
			name:        "nil provider",
			provider:    func(*testing.T) *instrumentation.Provider { return nil },
			errContains: "instrumentation provider is required",
		},
		{
			name:        "disabled provider",
			provider:    func(t *testing.T) *instrumentation.Provider { return newProvider(t, false, "") },
			errContains: "instrumentation provider is not enabled",
		},
		{
			name:        "stdout exporter",
			provider:    func(t *testing.T) *instrumentation.Provider { return newProvider(t, true, instrumentation.ExporterStdout) },
			errContains: "not prometheus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, err := NewMetricsServer(MetricsServerConfig{Provider: tt.provider(t)})
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultMetricsAddr, srv.Addr())
		})
	}
}

func TestMetricsServer_ExposesRecordedMetrics(t *testing.T) {
	provider := newProvider(t, true, instrumentation.ExporterPrometheus)
	provider.Metrics().RecordChatTurn(context.Background(), "success")

	srv, err := NewMetricsServer(MetricsServerConfig{Addr: "127.0.0.1:0", Provider: provider})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chat_turns_total")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsServer_StartAndShutdown(t *testing.T) {
	provider := newProvider(t, true, instrumentation.ExporterPrometheus)
	srv, err := NewMetricsServer(MetricsServerConfig{Addr: "127.0.0.1:0", Provider: provider})
	require.NoError(t, err)

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- srv.StartWithReadySignal(ready) }()

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("metrics server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not start")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}
