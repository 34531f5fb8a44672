// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/teslaing/cotizador/internal/ai"
	"github.com/teslaing/cotizador/internal/api"
	"github.com/teslaing/cotizador/internal/branding"
	"github.com/teslaing/cotizador/internal/mcpserver"
	"github.com/teslaing/cotizador/internal/quoteservice"
	"github.com/teslaing/cotizador/internal/session"
	"github.com/teslaing/cotizador/internal/sse"
	"github.com/teslaing/cotizador/internal/storage"
	"github.com/teslaing/cotizador/internal/store"
)

// Run starts the HTTP application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("uploads_path", cfg.Uploads.Path),
		slog.String("branding_path", cfg.Branding.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize SQLite storage for quotes and clients.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// Per-session document uploads.
	uploads, err := storage.NewFS(cfg.Uploads.Path)
	if err != nil {
		return fmt.Errorf("init uploads: %w", err)
	}

	// Branding assets with the configured company as fallback.
	brand, err := branding.NewManager(cfg.Branding.Path, cfg.Branding.Company.Info())
	if err != nil {
		return fmt.Errorf("init branding: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker(cfg.App.SSE.ListThrottle())
	defer broker.Close()

	sessions := session.NewManager()

	provider := newProvider(cfg, logger)

	svc := quoteservice.NewService(db, sessions, provider, broker, brand, uploads, logger)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes (including /api/events) under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Hot-reload branding assets, notifying connected browsers.
	g.Go(func() error {
		return branding.Watch(gCtx, brand, logger, func() {
			broker.Publish(sse.Event{Type: "branding.actualizado"})
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the quotation tools over MCP stdio instead of HTTP.
// Logs go to stderr so stdout stays clean for the protocol stream.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	uploads, err := storage.NewFS(cfg.Uploads.Path)
	if err != nil {
		return fmt.Errorf("init uploads: %w", err)
	}

	brand, err := branding.NewManager(cfg.Branding.Path, cfg.Branding.Company.Info())
	if err != nil {
		return fmt.Errorf("init branding: %w", err)
	}

	svc := quoteservice.NewService(db, session.NewManager(), newProvider(cfg, logger), nil, brand, uploads, logger)

	logger.Info("Serving MCP over stdio", slog.String("sqlite_path", cfg.SQLite.Path))
	return mcpserver.New(svc).ServeStdio()
}

// newProvider builds the chat provider, or nil if generation is not
// configured. A missing API key is a warning, not a startup failure:
// the rest of the application works without the assistant.
func newProvider(cfg *Config, logger *slog.Logger) ai.Provider {
	if cfg.AI.Model == "" {
		logger.Warn("AI model not configured, chat generation disabled")
		return nil
	}
	provider, err := ai.NewProvider(cfg.AI.Model, ai.Config{
		APIKey:    cfg.AI.APIKey,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   cfg.AI.Timeout(),
	})
	if err != nil {
		logger.Warn("chat provider unavailable", slog.String("error", err.Error()))
		return nil
	}
	return provider
}
