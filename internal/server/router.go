package server

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teemow/calassist/internal/chat"
	"github.com/teemow/calassist/internal/credentials"
	"github.com/teemow/calassist/internal/google"
	"github.com/teemow/calassist/internal/instrumentation"
	"github.com/teemow/calassist/internal/logging"
	"github.com/teemow/calassist/internal/session"
)

//go:embed web/index.html
var webFS embed.FS

var indexTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

// RouterConfig holds the dependencies of the web UI.
type RouterConfig struct {
	Sessions    *session.Manager
	Relay       *chat.Relay
	Credentials *credentials.Handler
	Health      *HealthChecker
	Metrics     *instrumentation.Metrics
	Logger      *slog.Logger
	// BackendURL is shown on the page.
	BackendURL string
}

type pageData struct {
	BackendURL string
	SetupSteps []string
	RunSteps   []string
}

// NewRouter wires the page, the JSON API and the health probes.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithComponent(logger, "http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(httpMetrics(cfg.Metrics))

	if cfg.Health != nil {
		cfg.Health.RegisterHealthEndpoints(r)
	}

	page := pageData{
		BackendURL: cfg.BackendURL,
		SetupSteps: google.SetupSteps,
		RunSteps:   google.RunSteps,
	}
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, page); err != nil {
			logger.Error("failed to render page", logging.Err(err))
		}
	})

	a := &api{
		sessions: cfg.Sessions,
		relay:    cfg.Relay,
		creds:    cfg.Credentials,
		logger:   logger,
	}
	r.Route("/api", a.routes)

	return r
}
