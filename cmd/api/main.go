package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"oai-harvester/internal/app"
	"oai-harvester/internal/observability/logging"
	"oai-harvester/internal/observability/tracing"
	loader "oai-harvester/internal/pkg/config"
	envconfig "oai-harvester/pkg/config"

	hhttp "oai-harvester/internal/handler/http"
	hharvest "oai-harvester/internal/handler/http/harvest"
	"oai-harvester/internal/handler/http/requestid"
	hsrc "oai-harvester/internal/handler/http/source"
	srcUC "oai-harvester/internal/usecase/source"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 1 << 20

func main() {
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	shutdownTracing := initTracing(logger)

	a, err := app.New(logger, loader.NewConfigMetrics("api"))
	if err != nil {
		logger.Error("failed to initialize", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := envconfig.GetEnvString("VERSION", "dev")
	mux := setupRoutes(a.DB, version, a.Sources, a.Harvester)
	handler := applyMiddleware(logger, mux)

	runServer(logger, a, handler, version)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("tracer provider shutdown failed", slog.Any("error", err))
	}
}

// initTracing installs the SDK tracer provider so spans carry real trace IDs.
// OTEL_TRACES_SAMPLER_ARG sets the root sampling ratio; OTEL_SDK_DISABLED
// keeps the no-op provider.
func initTracing(logger *slog.Logger) func(context.Context) error {
	if envconfig.GetEnvBool("OTEL_SDK_DISABLED", false) {
		logger.Info("tracing disabled")
		return func(context.Context) error { return nil }
	}
	result := loader.LoadEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1.0, func(v float64) error {
		return loader.ValidateFloatRange(v, 0, 1)
	})
	for _, warning := range result.Warnings {
		logger.Warn("Configuration fallback applied",
			slog.String("field", "trace_sample_ratio"),
			slog.String("warning", warning))
	}
	return tracing.InstallProvider(result.Value.(float64))
}

// setupRoutes registers all HTTP routes.
func setupRoutes(database *sql.DB, version string, srcSvc srcUC.Service, harvester hharvest.Harvester) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	hsrc.Register(mux, srcSvc)
	hharvest.Register(mux, harvester)
	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID → Tracing → Recovery → Logging → Metrics → Body Limit
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	return hhttp.Chain(handler,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware,
		hhttp.LimitRequestBody(maxRequestBody),
	)
}

// runServer starts the API and metrics servers and blocks until SIGINT or SIGTERM.
func runServer(logger *slog.Logger, a *app.App, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf(":%d", a.Config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	if a.Config.MetricsPort != a.Config.Port {
		startMetricsServer(ctx, logger, a.Config.MetricsPort)
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// running harvests see a canceled context and stop after their current page
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
