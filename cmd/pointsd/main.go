package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vrushal1018/points-table-system/internal/adapters/http/api"
	"github.com/vrushal1018/points-table-system/internal/adapters/http/site"
	"github.com/vrushal1018/points-table-system/internal/adapters/http/swagger"
	app "github.com/vrushal1018/points-table-system/internal/app"
	"github.com/vrushal1018/points-table-system/internal/config"
	"github.com/vrushal1018/points-table-system/internal/inference"
	"github.com/vrushal1018/points-table-system/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 60 * time.Second
	writeTimeout      = 300 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.VisionAPIKey == "" {
		log.Warn(ctx, "vision_api_key is empty; analysis requests will fail until one is set")
	}

	client := inference.NewClient(
		inference.Config{
			APIKey:  cfg.VisionAPIKey,
			BaseURL: cfg.VisionBaseURL,
			Model:   cfg.VisionModel,
			Timeout: cfg.RequestTimeout(),
		},
		inference.WithRetryPolicy(cfg.MaxRetries, cfg.RetryBaseDelay()),
		inference.WithLogger(log.Named("inference")),
	)

	svc := app.New(
		app.WithLogger(log),
		app.WithTranscriber(client),
		app.WithImageDelay(cfg.ImageDelay()),
		app.WithMaxImages(cfg.MaxImages),
		app.WithMaxImageSize(cfg.MaxImageSizeBytes()),
		app.WithPositionPoints(cfg.PositionPointsTable()),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Embedded upload page at / and API docs under /api-docs.
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
