package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapEnv(m map[string]string) env {
	return func(key string) string { return m[key] }
}

func TestConfigFrom_Defaults(t *testing.T) {
	c := configFrom(mapEnv(nil))

	assert.Equal(t, "calassist", c.ServiceName)
	assert.True(t, c.Enabled)
	assert.Equal(t, ExporterPrometheus, c.MetricsExporter)
	assert.Equal(t, ExporterNone, c.TracingExporter)
	assert.Empty(t, c.OTLPEndpoint)
	assert.False(t, c.OTLPInsecure)
	assert.InDelta(t, 0.1, c.TraceSamplingRate, 1e-9)
	require.NoError(t, c.Validate())
}

func TestConfigFrom_Overrides(t *testing.T) {
	c := configFrom(mapEnv(map[string]string{
		EnvServiceName:     " calassist-web ",
		EnvEnabled:         "false",
		EnvMetricsExporter: ExporterOTLP,
		EnvTracingExporter: ExporterStdout,
		EnvOTLPEndpoint:    "collector:4318",
		EnvOTLPInsecure:    "1",
		EnvSamplingRate:    "0.5",
	}))

	assert.Equal(t, "calassist-web", c.ServiceName)
	assert.False(t, c.Enabled)
	assert.Equal(t, ExporterOTLP, c.MetricsExporter)
	assert.Equal(t, ExporterStdout, c.TracingExporter)
	assert.Equal(t, "collector:4318", c.OTLPEndpoint)
	assert.True(t, c.OTLPInsecure)
	assert.InDelta(t, 0.5, c.TraceSamplingRate, 1e-9)
}

func TestConfigFrom_UnparsableFallsBack(t *testing.T) {
	c := configFrom(mapEnv(map[string]string{
		EnvEnabled:      "sometimes",
		EnvSamplingRate: "half",
	}))

	assert.True(t, c.Enabled)
	assert.InDelta(t, 0.1, c.TraceSamplingRate, 1e-9)
}

func TestDefaultConfig_ReadsProcessEnv(t *testing.T) {
	t.Setenv(EnvServiceName, "from-env")
	t.Setenv(EnvTracingExporter, ExporterStdout)

	c := DefaultConfig()
	assert.Equal(t, "from-env", c.ServiceName)
	assert.Equal(t, ExporterStdout, c.TracingExporter)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "zero value", config: Config{}},
		{name: "prometheus", config: Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone}},
		{name: "otlp with endpoint", config: Config{MetricsExporter: ExporterOTLP, TracingExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318"}},
		{name: "negative sampling", config: Config{TraceSamplingRate: -0.5}, wantErr: "sampling rate"},
		{name: "sampling above one", config: Config{TraceSamplingRate: 1.5}, wantErr: "sampling rate"},
		{name: "unknown metrics exporter", config: Config{MetricsExporter: "statsd"}, wantErr: "invalid metrics exporter"},
		{name: "unknown tracing exporter", config: Config{TracingExporter: "jaeger"}, wantErr: "invalid tracing exporter"},
		{name: "otlp tracing without endpoint", config: Config{TracingExporter: ExporterOTLP}, wantErr: "OTLP endpoint is required"},
		{name: "otlp metrics without endpoint", config: Config{MetricsExporter: ExporterOTLP}, wantErr: "OTLP endpoint is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
