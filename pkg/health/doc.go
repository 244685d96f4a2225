// Package health provides HTTP handlers for liveness and readiness
// probes compatible with Docker, Kubernetes, and external monitors.
//
// [LivenessHandler] is an always-OK endpoint for process liveness.
// [ReadinessHandler] runs a set of named [Checks] in parallel under a
// shared timeout and reports 503 when any of them fail. Both handlers
// answer plain text by default and JSON when the client asks for it via
// the Accept header or ?format=json.
//
//	mux.Handle("/health/live", health.LivenessHandler())
//	mux.Handle("/health/ready", health.ReadinessHandler(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//	}))
package health
