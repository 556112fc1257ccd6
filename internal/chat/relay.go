package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/calassist/internal/backend"
	"github.com/teemow/calassist/internal/instrumentation"
	"github.com/teemow/calassist/internal/logging"
	"github.com/teemow/calassist/internal/outcome"
	"github.com/teemow/calassist/internal/session"
)

// User-facing messages.
const (
	MsgNoReply      = "No reply from AI."
	MsgEmptyMessage = "Please enter a message."
)

// Chatter is the backend call used by Relay.
type Chatter interface {
	Chat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error)
	BaseURL() string
}

// Relay sends chat turns to the backend.
type Relay struct {
	backend Chatter
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewRelay creates a relay. logger and metrics may be nil.
func NewRelay(b Chatter, logger *slog.Logger, metrics *instrumentation.Metrics) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		backend: b,
		logger:  logging.WithComponent(logger, "chat"),
		metrics: metrics,
	}
}

// UnreachableMessage is the transcript text used when the backend at baseURL
// cannot be reached.
func UnreachableMessage(baseURL string) string {
	return "Could not connect to the backend API. Please ensure the FastAPI backend is running at " +
		baseURL + ". Run `uvicorn main:app --reload` in your terminal."
}

// Send relays text for sess and records the turn in its transcript.
//
// Blank text is rejected with a validation result and nothing is recorded.
func (r *Relay) Send(ctx context.Context, sess *session.Session, text string) outcome.Result {
	start := time.Now()
	logger := logging.WithOperation(r.logger, "chat").With(logging.SessionHash(sess.ID()))
	ctx, span := instrumentation.StartOperationSpan(ctx, "chat.turn",
		attribute.String(instrumentation.SpanAttrSessionHash, logging.AnonymizeSession(sess.ID())))

	if strings.TrimSpace(text) == "" {
		res := outcome.Validation(MsgEmptyMessage)
		r.finish(ctx, logger, span, res, start)
		return res
	}

	sess.Append(session.RoleUser, text)

	resp, err := r.backend.Chat(ctx, backend.ChatRequest{
		SessionID: sess.ID(),
		Message:   text,
	})
	res := r.translate(resp, err)

	sess.Append(session.RoleAssistant, res.Display())
	r.finish(ctx, logger, span, res, start)
	return res
}

func (r *Relay) finish(ctx context.Context, logger *slog.Logger, span trace.Span, res outcome.Result, start time.Time) {
	r.metrics.RecordChatTurn(ctx, res.Kind.String())
	span.SetAttributes(attribute.String(instrumentation.SpanAttrKind, res.Kind.String()))
	instrumentation.EndSpan(span, res.Err)

	attrs := []any{
		logging.Kind(res.Kind.String()),
		slog.Duration(logging.KeyDuration, time.Since(start)),
	}
	if id := instrumentation.TraceID(ctx); id != "" {
		attrs = append(attrs, slog.String(logging.KeyTraceID, id))
	}
	if res.OK() {
		logger.Info("chat turn completed", append(attrs, logging.Status(logging.StatusSuccess))...)
		return
	}
	logger.Warn("chat turn failed", append(attrs, logging.Status(logging.StatusError), logging.Err(res.Err))...)
}

func (r *Relay) translate(resp *backend.ChatResponse, err error) outcome.Result {
	if err == nil {
		reply := MsgNoReply
		if resp != nil && resp.Reply != nil && strings.TrimSpace(*resp.Reply) != "" {
			reply = *resp.Reply
		}
		return outcome.Success(reply)
	}

	var statusErr *backend.StatusError
	kind := outcome.Classify(err)

	switch {
	case kind == outcome.KindBackendRejection:
		detail := outcome.Detail(err)
		return outcome.Rejection("Backend Error: "+detail, detail, err)
	case backend.IsUnreachable(err):
		return outcome.Transport(UnreachableMessage(r.backend.BaseURL()), err)
	case errors.Is(err, backend.ErrMalformedResponse):
		return outcome.Unknown(fmt.Sprintf("An unexpected error occurred: %v", err), err)
	case kind == outcome.KindTransport, errors.As(err, &statusErr):
		// Timed out after connecting, or a non-4xx status.
		return outcome.Unknown(fmt.Sprintf("An error occurred: %v", err), err)
	}
	return outcome.Unknown(fmt.Sprintf("An unexpected error occurred: %v", err), err)
}
