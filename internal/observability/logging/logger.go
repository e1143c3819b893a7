package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"oai-harvester/internal/handler/http/requestid"
)

// LevelFromEnv maps LOG_LEVEL to a slog level.
// Supported levels: debug, info, warn, error. Anything else is info.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a JSON logger on stdout for the API binary.
// Source locations are added when debugging.
func NewLogger() *slog.Logger {
	return New(os.Stdout, "json")
}

// NewTextLogger creates a human-readable logger on stderr for the CLI,
// keeping stdout free for command output.
func NewTextLogger() *slog.Logger {
	return New(os.Stderr, "text")
}

// New creates a logger writing to w. format is "json" or "text".
func New(w io.Writer, format string) *slog.Logger {
	level := LevelFromEnv()
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// WithRequestID returns a new logger that includes the request ID from the context.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With("request_id", reqID)
}

// WithSource returns a logger scoped to one harvest source.
func WithSource(logger *slog.Logger, sourceID int64, baseURL string) *slog.Logger {
	return logger.With(
		slog.Int64("source_id", sourceID),
		slog.String("base_url", baseURL),
	)
}

// FromContext retrieves the logger from the context, or returns the default logger if not found.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
