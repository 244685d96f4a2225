package logger

import (
	"log/slog"
	"os"
)

// New creates a JSON-formatted logger with optional context extractors.
// Suitable for production output where logs are shipped as structured records.
func New(extractors ...ContextExtractor) *slog.Logger {
	log := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(NewLogHandlerDecorator(log, extractors...))
}

// NewDevelopment creates a human-readable text logger at debug level.
// Use it when running locally; production deployments should use New or
// NewWithSentry.
func NewDevelopment(extractors ...ContextExtractor) *slog.Logger {
	log := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return slog.New(NewLogHandlerDecorator(log, extractors...))
}
