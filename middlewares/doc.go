// Package middlewares provides HTTP middleware for the application.
//
// # Request ID
//
// RequestID assigns a unique ID to each request for tracing. It checks
// incoming headers for an existing ID or generates a new one.
//
//	app := webapp.New(
//	    webapp.WithLogger("web", middlewares.RequestIDExtractor()),
//	    webapp.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover catches panics and converts them to typed errors handled by
// the global ErrorHandler.
//
// # Timeout
//
// Timeout enforces request timeouts and returns a typed TimeoutError.
// The handler goroutine continues after timeout; use context.Done() for
// early termination.
//
// # CORS
//
// CORS handles Cross-Origin Resource Sharing, including preflight
// (OPTIONS) requests. Useful when the GraphQL endpoint is queried from
// another origin.
//
// # Recommended Order
//
//	webapp.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Recover(),
//	    middlewares.Timeout(30*time.Second),
//	)
package middlewares
