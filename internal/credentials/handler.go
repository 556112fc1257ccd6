package credentials

import (
	"context"
	"errors"
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
	MsgFieldsRequired = "All fields are required for Google Calendar configuration."
	MsgDefaultSuccess = "Configuration successful!"
	failedPrefix      = "Failed to configure Google Calendar: "
	unexpectedPrefix  = "An unexpected error occurred during configuration: "
)

// Payload holds the credentials for one submission.
type Payload struct {
	RefreshToken string
	ClientID     string
	ClientSecret string
}

// Complete reports whether all three fields are non-blank.
func (p Payload) Complete() bool {
	return strings.TrimSpace(p.RefreshToken) != "" &&
		strings.TrimSpace(p.ClientID) != "" &&
		strings.TrimSpace(p.ClientSecret) != ""
}

// LogValue keeps secrets out of structured logs.
func (p Payload) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("refresh_token", logging.SanitizeToken(p.RefreshToken)),
		slog.String("client_id", logging.SanitizeToken(p.ClientID)),
		slog.String("client_secret", logging.SanitizeToken(p.ClientSecret)),
	)
}

// Configurer is the backend call used by Handler.
type Configurer interface {
	ConfigureCalendar(ctx context.Context, sessionID string, req backend.ConfigureCalendarRequest) (*backend.ConfigureCalendarResponse, error)
}

// Handler submits credentials on behalf of a session.
type Handler struct {
	backend Configurer
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewHandler creates a credential handler. logger and metrics may be nil.
func NewHandler(b Configurer, logger *slog.Logger, metrics *instrumentation.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		backend: b,
		logger:  logging.WithComponent(logger, "credentials"),
		metrics: metrics,
	}
}

// Submit validates p and forwards it to the backend for sess.
//
// Blank fields produce a validation result without any call and leave the
// session's configuration status untouched. Every other outcome overwrites
// it: configured on success, not configured otherwise.
func (h *Handler) Submit(ctx context.Context, sess *session.Session, p Payload) outcome.Result {
	start := time.Now()
	logger := logging.WithOperation(h.logger, "configure_calendar").With(logging.SessionHash(sess.ID()))
	ctx, span := instrumentation.StartOperationSpan(ctx, "calendar.configure",
		attribute.String(instrumentation.SpanAttrSessionHash, logging.AnonymizeSession(sess.ID())))

	if !p.Complete() {
		res := outcome.Validation(MsgFieldsRequired)
		h.finish(ctx, logger, span, res, start)
		return res
	}

	logger.Debug("submitting calendar credentials", slog.Any("credentials", p))

	resp, err := h.backend.ConfigureCalendar(ctx, sess.ID(), backend.ConfigureCalendarRequest{
		RefreshToken: p.RefreshToken,
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
	})

	res := translate(resp, err)
	sess.SetConfigured(res.OK())
	h.finish(ctx, logger, span, res, start)
	return res
}

func (h *Handler) finish(ctx context.Context, logger *slog.Logger, span trace.Span, res outcome.Result, start time.Time) {
	h.metrics.RecordCalendarConfiguration(ctx, res.Kind.String())
	span.SetAttributes(attribute.String(instrumentation.SpanAttrKind, res.Kind.String()))
	instrumentation.EndSpan(span, res.Err)

	attrs := []any{
		logging.Kind(res.Kind.String()),
		slog.Duration(logging.KeyDuration, time.Since(start)),
	}
	if res.OK() {
		logger.Info("calendar configured", append(attrs, logging.Status(logging.StatusSuccess))...)
		return
	}
	logger.Warn("calendar configuration failed",
		append(attrs, logging.Status(logging.StatusError), logging.Err(res.Err))...)
}

func translate(resp *backend.ConfigureCalendarResponse, err error) outcome.Result {
	if err == nil {
		msg := MsgDefaultSuccess
		if resp != nil && resp.Message != nil && strings.TrimSpace(*resp.Message) != "" {
			msg = *resp.Message
		}
		return outcome.Success(msg)
	}

	switch outcome.Classify(err) {
	case outcome.KindBackendRejection:
		detail := outcome.Detail(err)
		return outcome.Rejection(failedPrefix+detail, detail, err)
	case outcome.KindTransport:
		return outcome.Transport(failedPrefix+err.Error(), err)
	}

	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		return outcome.Unknown(failedPrefix+statusErr.Error(), err)
	}
	return outcome.Unknown(unexpectedPrefix+err.Error(), err)
}
