// Mero Gateway - storefront API over the Medusa Store API.
// Designed for Cloud Run deployment with stateless operation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mero-gateway/internal/apiversion"
	"mero-gateway/internal/config"
	"mero-gateway/internal/handler"
	"mero-gateway/internal/httpcache"
	"mero-gateway/internal/medusa"
	"mero-gateway/internal/middleware"
	"mero-gateway/internal/storefront"
	"mero-gateway/internal/transport"
)

// The handler layer talks to the backend through the storefront seam.
var _ storefront.API = (*medusa.Client)(nil)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := initLogger(cfg)

	logger.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.String("transport", cfg.Transport),
		slog.Bool("backend_configured", cfg.Store.BackendURL != ""),
	)

	client := medusa.New(medusa.Config{
		BackendURL:     cfg.Store.BackendURL,
		PublishableKey: cfg.Store.PublishableKey,
		Transport:      transport.New(cfg.Transport),
		Cache:          httpcache.New(),
		Region: medusa.RegionOptions{
			LocaleHint: cfg.Store.LocaleHint,
			Currency:   cfg.Store.Currency,
		},
		Logger: logger,
	})

	h := handler.New(client, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// Recovery must be outermost to catch panics from the other layers.
	httpHandler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.CORS(cfg.AllowedOrigin),
		apiversion.Middleware(logger),
	)(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
		)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// initLogger creates a structured logger configured from the loaded config.
// JSON for production (Cloud Logging compatible), text for development.
func initLogger(cfg *config.Config) *slog.Logger {
	level := cfg.SlogLevel()
	opts := &slog.HandlerOptions{
		Level: level,
		// Add source location in debug mode
		AddSource: level == slog.LevelDebug,
	}

	if cfg.LogFormat == "json" || cfg.Environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
