// Package app wires the configuration, logging, pipeline, and HTTP transport
// into a runnable web application. The server is a localhost tool for a
// single operator; it holds no state between requests.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"retailpulse/internal/config"
	"retailpulse/internal/infrastructure"
	"retailpulse/internal/ingest"
	"retailpulse/internal/middleware"
	"retailpulse/internal/pipeline"
	"retailpulse/internal/report"
	transporthttp "retailpulse/internal/transport/http"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Application holds the wired components and the HTTP server.
type Application struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// New builds the application from configuration: logger, pipeline
// components, handlers, router, and server.
func New(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	builder, err := report.NewBuilder(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report builder: %w", err)
	}

	reportHandler := transporthttp.NewReportHandler(
		ingest.NewLoader(logger),
		pipeline.NewRunner(pipeline.NewStaticRateTable(), logger),
		builder,
		logger,
		cfg.Server.MaxUploadBytes,
		cfg.Report.PreviewRows,
	)
	healthHandler := transporthttp.NewHealthHandler(Version)

	router := buildRouter(cfg, logger, reportHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		cfg:    cfg,
		logger: logger,
		server: server,
	}, nil
}

func buildRouter(
	cfg *config.Config,
	logger *slog.Logger,
	reportHandler *transporthttp.ReportHandler,
	healthHandler *transporthttp.HealthHandler,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	r.Get("/", transporthttp.IndexHandler)
	r.Get("/api/health", healthHandler.Health)
	r.Mount("/api/report", reportHandler.Routes())

	return r
}

// Run starts the HTTP server and blocks until the context is cancelled, an
// interrupt arrives, or the server fails. Shutdown is graceful with the
// configured timeout.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			slog.String("addr", a.server.Addr),
			slog.String("version", Version))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down",
		slog.Duration("timeout", a.cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	a.logger.Info("server stopped")
	infrastructure.CloseLogFile()
	return nil
}

// Handler exposes the wired router, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}
