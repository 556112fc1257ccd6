// Package instrumentation wires OpenTelemetry metrics and tracing for
// calassist.
//
// NewProvider builds a meter and tracer provider from a Config and installs
// them globally. Its Metrics recorder exposes one method per event:
//
//	backend_requests_total, backend_request_duration_seconds   by endpoint, status_class
//	chat_turns_total, calendar_configurations_total            by outcome kind
//	http_requests_total, http_request_duration_seconds         by method, route, status
//	active_sessions                                            web UI sessions held
//
// A nil or zero Metrics drops every recording, so packages that take one
// work unchanged when telemetry is off.
//
// Spans: StartOperationSpan wraps one user action, StartBackendSpan one POST
// to the backend. EndSpan closes either.
//
// DefaultConfig reads INSTRUMENTATION_ENABLED, METRICS_EXPORTER
// (prometheus, otlp, stdout), TRACING_EXPORTER (otlp, stdout, none),
// OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE,
// OTEL_TRACES_SAMPLER_ARG and OTEL_SERVICE_NAME.
package instrumentation
