// Package health provides liveness and readiness HTTP handlers.
//
//	r.Get("/health", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	}, health.WithLogger(log)))
//
// Liveness always answers 200 with an empty body. Readiness runs every check
// in parallel and answers 200 or 503; pass ?format=json or an
// Accept: application/json header to get per-check details.
package health
