package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebServer_StartAndShutdown(t *testing.T) {
	env := newTestEnv(t, defaultBackend())
	health := NewHealthChecker(env.sessions.Len)
	srv := NewWebServer("127.0.0.1:0", env.router, health, nil)

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- srv.StartWithReadySignal(ready) }()

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("web server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("web server did not start")
	}

	resp, err := http.Post("http://"+srv.Addr()+"/api/sessions", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
	assert.False(t, health.IsReady())
}

func TestWebServer_ListenError(t *testing.T) {
	srv := NewWebServer("256.0.0.1:bad", http.NotFoundHandler(), nil, nil)

	err := srv.StartWithReadySignal(make(chan struct{}))
	assert.Error(t, err)
}

func TestNewWebServer_DefaultAddr(t *testing.T) {
	srv := NewWebServer("", http.NotFoundHandler(), nil, nil)
	assert.Equal(t, DefaultHTTPAddr, srv.Addr())
}
