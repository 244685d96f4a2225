// Package logger provides structured logging built on log/slog with
// context-based attribute injection and optional Sentry error reporting.
//
// A ContextExtractor pulls request-scoped values (request ID, user ID)
// out of a context.Context on every log call:
//
//	log := logger.New(func(ctx context.Context) (slog.Attr, bool) {
//		if reqID, ok := ctx.Value(ctxKeyRequestID).(string); ok && reqID != "" {
//			return slog.String("request_id", reqID), true
//		}
//		return slog.Attr{}, false
//	})
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//
// NewWithSentry fans log records out to stdout and Sentry; when the DSN
// is empty it falls back to stdout-only, so the same code path works in
// development and production. NewDevelopment produces human-readable
// text output at debug level for local runs.
package logger
