package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvBackendURL, EnvBackendTimeout, EnvHTTPAddr, EnvSessionTTL, EnvMetricsEnabled, EnvMetricsAddr} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
	assert.Zero(t, cfg.Backend.Timeout)
	assert.Equal(t, ":8501", cfg.Server.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Server.SessionTTL)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBackendURL, "http://assistant.internal:8000")
	t.Setenv(EnvBackendTimeout, "30s")
	t.Setenv(EnvHTTPAddr, "8080")
	t.Setenv(EnvSessionTTL, "1h")
	t.Setenv(EnvMetricsEnabled, "true")
	t.Setenv(EnvMetricsAddr, "127.0.0.1:9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://assistant.internal:8000", cfg.Backend.URL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, time.Hour, cfg.Server.SessionTTL)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad timeout", EnvBackendTimeout, "soon"},
		{"negative timeout", EnvBackendTimeout, "-1s"},
		{"bad ttl", EnvSessionTTL, "forever"},
		{"zero ttl", EnvSessionTTL, "0s"},
		{"bad metrics flag", EnvMetricsEnabled, "maybe"},
		{"bad addr", EnvHTTPAddr, "not a port"},
		{"non numeric port", EnvMetricsAddr, "http"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BACKEND_URL=http://from-dotenv:8000\nMETRICS_ENABLED=true\n"), 0o600))

	// A variable that is already set wins over the file.
	t.Setenv(EnvMetricsEnabled, "false")
	// t.Setenv("") leaves BACKEND_URL set but empty; godotenv only skips
	// variables that are present, so unset it for the override check.
	require.NoError(t, os.Unsetenv(EnvBackendURL))
	t.Cleanup(func() { _ = os.Unsetenv(EnvBackendURL) })

	require.NoError(t, LoadDotEnv(path))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv:8000", cfg.Backend.URL)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
