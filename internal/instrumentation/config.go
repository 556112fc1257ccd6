package instrumentation

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Exporter names accepted by METRICS_EXPORTER and TRACING_EXPORTER.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// DefaultMetricInterval is the push interval of periodic metric readers.
const DefaultMetricInterval = 10 * time.Second

// Environment variables read by DefaultConfig.
const (
	EnvServiceName       = "OTEL_SERVICE_NAME"
	EnvServiceInstanceID = "OTEL_SERVICE_INSTANCE_ID"
	EnvEnabled           = "INSTRUMENTATION_ENABLED"
	EnvMetricsExporter   = "METRICS_EXPORTER"
	EnvTracingExporter   = "TRACING_EXPORTER"
	EnvOTLPEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOTLPInsecure      = "OTEL_EXPORTER_OTLP_INSECURE"
	EnvSamplingRate      = "OTEL_TRACES_SAMPLER_ARG"
)

// Config describes how telemetry is exported.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// ServiceInstanceID falls back to the hostname when empty.
	ServiceInstanceID string

	// Enabled false yields a provider whose recorder drops everything.
	Enabled bool

	// MetricsExporter is one of prometheus, otlp or stdout.
	MetricsExporter string
	// TracingExporter is one of otlp, stdout or none.
	TracingExporter string

	// OTLPEndpoint is host:port without a scheme, e.g. "localhost:4318".
	OTLPEndpoint string
	OTLPInsecure bool

	// TraceSamplingRate is the ratio of root spans kept, 0.0 to 1.0.
	TraceSamplingRate float64
}

// env reads settings from the process environment. Unset, empty or
// unparsable values yield the fallback.
type env func(string) string

func (e env) str(key, fallback string) string {
	if v := strings.TrimSpace(e(key)); v != "" {
		return v
	}
	return fallback
}

func (e env) boolean(key string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(e(key)))
	if err != nil {
		return fallback
	}
	return b
}

func (e env) float(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(e(key)), 64)
	if err != nil {
		return fallback
	}
	return f
}

// DefaultConfig returns a Config populated from environment variables.
// Metrics go to Prometheus and tracing is off unless configured otherwise.
func DefaultConfig() Config {
	return configFrom(os.Getenv)
}

func configFrom(e env) Config {
	return Config{
		ServiceName:       e.str(EnvServiceName, "calassist"),
		ServiceVersion:    "unknown",
		ServiceInstanceID: e.str(EnvServiceInstanceID, ""),
		Enabled:           e.boolean(EnvEnabled, true),
		MetricsExporter:   e.str(EnvMetricsExporter, ExporterPrometheus),
		TracingExporter:   e.str(EnvTracingExporter, ExporterNone),
		OTLPEndpoint:      e.str(EnvOTLPEndpoint, ""),
		OTLPInsecure:      e.boolean(EnvOTLPInsecure, false),
		TraceSamplingRate: e.float(EnvSamplingRate, 0.1),
	}
}

// Validate reports the first invalid setting. Empty exporter names are
// accepted and treated as the defaults by NewProvider.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter (set %s)", EnvOTLPEndpoint)
		}
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter (set %s)", EnvOTLPEndpoint)
		}
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	return nil
}
