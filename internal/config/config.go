// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvBackendURL     = "BACKEND_URL"
	EnvBackendTimeout = "BACKEND_TIMEOUT"
	EnvHTTPAddr       = "CALASSIST_HTTP_ADDR"
	EnvSessionTTL     = "CALASSIST_SESSION_TTL"
	EnvMetricsEnabled = "METRICS_ENABLED"
	EnvMetricsAddr    = "METRICS_ADDR"
)

// Defaults.
const (
	DefaultBackendURL  = "http://localhost:8000"
	DefaultHTTPAddr    = ":8501"
	DefaultSessionTTL  = 24 * time.Hour
	DefaultMetricsAddr = ":9090"
)

// Config aggregates all runtime settings.
type Config struct {
	Backend BackendConfig
	Server  ServerConfig
	Metrics MetricsConfig
}

// BackendConfig describes how to reach the assistant backend.
type BackendConfig struct {
	URL string
	// Timeout bounds each call. Zero leaves it to the transport.
	Timeout time.Duration
}

// ServerConfig describes the web UI listener.
type ServerConfig struct {
	Addr       string
	SessionTTL time.Duration
}

// MetricsConfig describes the metrics listener.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// LoadDotEnv loads the given .env files (".env" when none are given) into
// the process environment. Variables already set are not overridden.
// A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", f, err)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	backend, err := loadBackendConfig()
	if err != nil {
		return nil, err
	}

	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	metrics, err := loadMetricsConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Backend: backend, Server: server, Metrics: metrics}, nil
}

func loadBackendConfig() (BackendConfig, error) {
	cfg := BackendConfig{URL: envOrDefault(EnvBackendURL, DefaultBackendURL)}

	timeout, err := envDuration(EnvBackendTimeout, 0)
	if err != nil {
		return BackendConfig{}, err
	}
	if timeout < 0 {
		return BackendConfig{}, fmt.Errorf("invalid %s value: must not be negative", EnvBackendTimeout)
	}
	cfg.Timeout = timeout

	return cfg, nil
}

func loadServerConfig() (ServerConfig, error) {
	addr, err := listenAddr(EnvHTTPAddr, DefaultHTTPAddr)
	if err != nil {
		return ServerConfig{}, err
	}

	ttl, err := envDuration(EnvSessionTTL, DefaultSessionTTL)
	if err != nil {
		return ServerConfig{}, err
	}
	if ttl <= 0 {
		return ServerConfig{}, fmt.Errorf("invalid %s value: must be positive", EnvSessionTTL)
	}

	return ServerConfig{Addr: addr, SessionTTL: ttl}, nil
}

func loadMetricsConfig() (MetricsConfig, error) {
	enabled := false
	if raw := strings.TrimSpace(os.Getenv(EnvMetricsEnabled)); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return MetricsConfig{}, fmt.Errorf("invalid %s value: %q", EnvMetricsEnabled, raw)
		}
		enabled = v
	}

	addr, err := listenAddr(EnvMetricsAddr, DefaultMetricsAddr)
	if err != nil {
		return MetricsConfig{}, err
	}

	return MetricsConfig{Enabled: enabled, Addr: addr}, nil
}

// listenAddr accepts "8501", ":8501" or "127.0.0.1:8501".
func listenAddr(key, def string) (string, error) {
	addr := envOrDefault(key, def)
	if strings.Contains(addr, " ") {
		return "", fmt.Errorf("invalid %s value: %q", key, addr)
	}
	if !strings.Contains(addr, ":") {
		if _, err := strconv.Atoi(addr); err != nil {
			return "", fmt.Errorf("invalid %s value: %q", key, addr)
		}
		addr = ":" + addr
	}
	return addr, nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return d, nil
}
