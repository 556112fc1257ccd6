package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/calassist/internal/chat"
	"github.com/teemow/calassist/internal/credentials"
	"github.com/teemow/calassist/internal/instrumentation"
	"github.com/teemow/calassist/internal/logging"
	"github.com/teemow/calassist/internal/server"
	"github.com/teemow/calassist/internal/session"
)

// serveOptions holds the serve flags. Zero values defer to the environment.
type serveOptions struct {
	httpAddr       string
	sessionTTL     time.Duration
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browser front-end",
		Long: `Serve the browser front-end over HTTP.

Each page load starts a new session. The page offers the Google Calendar
credential form and the chat, and talks to this server's JSON API, which
relays to the assistant backend.

Prometheus metrics can be exposed on a dedicated port with --metrics-enabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("http-addr") {
				cfg.Server.Addr = opts.httpAddr
			}
			if cmd.Flags().Changed("session-ttl") {
				cfg.Server.SessionTTL = opts.sessionTTL
			}
			if cmd.Flags().Changed("metrics-enabled") {
				cfg.Metrics.Enabled = opts.metricsEnabled
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = opts.metricsAddr
			}
			return runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP listen address. Can also use CALASSIST_HTTP_ADDR env var.")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", session.DefaultSessionTTL, "Idle time after which a browser session is dropped. Can also use CALASSIST_SESSION_TTL env var.")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", false, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logging.WithOperation(logger, "serve")

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()
	metrics := provider.Metrics()

	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:     cfg.Metrics.Addr,
			Provider: provider,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			metricsErr <- metricsServer.StartWithReadySignal(metricsReady)
		}()
		if err := waitReady(metricsReady, metricsErr); err != nil {
			return fmt.Errorf("metrics server failed to start: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	client, err := newBackendClient(metrics)
	if err != nil {
		return err
	}

	sessions := session.NewManagerWithLogger(cfg.Server.SessionTTL, logger, metrics)
	defer sessions.Stop()

	health := server.NewHealthChecker(sessions.Len)
	router := server.NewRouter(server.RouterConfig{
		Sessions:    sessions,
		Relay:       chat.NewRelay(client, logger, metrics),
		Credentials: credentials.NewHandler(client, logger, metrics),
		Health:      health,
		Metrics:     metrics,
		Logger:      logger,
		BackendURL:  client.BaseURL(),
	})
	web := server.NewWebServer(cfg.Server.Addr, router, health, logger)

	ready := make(chan struct{})
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- web.StartWithReadySignal(ready)
	}()
	if err := waitReady(ready, serverDone); err != nil {
		return fmt.Errorf("web server failed to start: %w", err)
	}

	log.Info("calassist web UI ready",
		slog.String("addr", web.Addr()),
		slog.String("backend", client.BaseURL()),
		slog.Duration("session_ttl", cfg.Server.SessionTTL))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := web.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down web server: %w", err)
		}
		return <-serverDone
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("web server stopped with error: %w", err)
		}
		return nil
	}
}

// waitReady blocks until ready is closed or errCh yields a startup error.
func waitReady(ready <-chan struct{}, errCh <-chan error) error {
	select {
	case <-ready:
		return nil
	case err := <-errCh:
		if err == nil {
			return fmt.Errorf("server stopped before becoming ready")
		}
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("startup timed out")
	}
}
