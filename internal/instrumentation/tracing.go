package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer all calassist spans are created with.
const TracerName = "github.com/teemow/calassist"

// Span attribute keys.
const (
	SpanAttrEndpoint    = "backend.endpoint"
	SpanAttrBackendURL  = "backend.url"
	SpanAttrStatusCode  = "http.response.status_code"
	SpanAttrSessionHash = "calassist.session_hash"
	SpanAttrKind        = "calassist.outcome_kind"
)

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartOperationSpan opens an internal span for one user action, such as a
// chat turn or a credential submission. Close it with EndSpan.
func StartOperationSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer().Start(ctx, operation,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartBackendSpan opens a client span for one POST to a backend endpoint.
func StartBackendSpan(ctx context.Context, endpoint string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	kvs := append([]attribute.KeyValue{attribute.String(SpanAttrEndpoint, endpoint)}, attrs...)
	return tracer().Start(ctx, "backend.POST "+endpoint,
		trace.WithAttributes(kvs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan sets the span status from err and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// TraceID returns the trace ID carried by ctx, or "" without a valid span.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
