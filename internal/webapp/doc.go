// Package webapp is the application core: a thin layer over chi that
// gives handlers a single Context with request helpers, structured
// logging, cookies, and server-side sessions, plus an App type that
// wires routing, middleware, health probes, static files, and graceful
// shutdown together.
//
// Handlers implement the Handler interface and declare their routes:
//
//	app := webapp.New(
//		webapp.WithCustomLogger(log),
//		webapp.WithSession(sessions, webapp.WithSessionSecure(true)),
//		webapp.WithHandlers(
//			handlers.NewAuth(users),
//			handlers.NewPages(disp),
//		),
//	)
//	err := app.Run(":8080", webapp.Logger(log), webapp.ShutdownHook(db.Shutdown(pool)))
//
// Handler functions return errors instead of writing error responses
// themselves; a configurable ErrorHandler turns returned errors into
// rendered error pages.
package webapp
