package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecpulse/internal/config"
	"ecpulse/internal/infrastructure"
	"ecpulse/internal/ingest"
	custommw "ecpulse/internal/middleware"
	"ecpulse/internal/services"
	"ecpulse/internal/store"
	transporthttp "ecpulse/internal/transport/http"
)

// Application holds the wired components of the analytics server.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Store     *store.Store
	Service   *services.AnalyticsService
	Router    *chi.Mux
	Server    *http.Server
}

// NewApplication loads configuration, initializes logging and telemetry,
// ingests the dataset, and builds the HTTP router.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	ctx := context.Background()
	telemetry, err := infrastructure.InitializeTelemetry(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	records, err := ingest.LoadFile(cfg.Data.SalesFile)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", cfg.Data.SalesFile, err)
	}
	st, err := store.New(records)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Telemetry: telemetry,
		Store:     st,
		Service:   services.NewAnalyticsService(st, logger, telemetry),
	}
	app.setupRouter()
	app.createServer()
	return app, nil
}

// setupRouter configures the HTTP router with all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.CORS(custommw.CORSConfig{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
	}))

	rateLimiter := custommw.NewRateLimiter(
		a.Config.Server.RateLimitRPS,
		a.Config.Server.RateLimitBurst,
		a.Logger,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimiter.Handler)
		transporthttp.NewAnalyticsHandler(a.Service, a.Logger).RegisterRoutes(r)
		transporthttp.NewHealthHandler(a.Store).RegisterRoutes(r)
	})

	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the server and blocks until an interrupt signal or a server
// error, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		a.Logger.InfoContext(ctx, "server starting",
			slog.String("addr", a.Server.Addr),
			slog.Int("records", a.Store.Len()))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received shutdown signal", slog.String("signal", sig.String()))
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	return a.Stop(ctx)
}

// Stop shuts the server and telemetry down within the configured timeout.
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.Logger.InfoContext(shutdownCtx, "shutting down server")
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(shutdownCtx); err != nil {
			a.Logger.WarnContext(shutdownCtx, "telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
	}
	a.Logger.InfoContext(shutdownCtx, "server stopped")
	return nil
}

// WaitForReady polls the health endpoint until the server answers or the
// timeout elapses. Intended for tests and scripted startup checks.
func (a *Application) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://localhost:%d/api/health", a.Config.Server.Port)
	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return fmt.Errorf("server not ready after %s", timeout)
}
