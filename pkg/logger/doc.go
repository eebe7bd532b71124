// Package logger builds the service's structured logger on top of log/slog.
//
// Records are written as JSON to stdout. Request-scoped values are attached
// through [ContextExtractor] functions that run on every log call:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	log.InfoContext(r.Context(), "subscriber created", slog.String("email", email))
//	// {"level":"INFO","msg":"subscriber created","email":"a@x.com","request_id":"..."}
//
// When Config.SentryDSN is set, warnings and errors are also sent to Sentry;
// errors become issues. If the SDK fails to initialize the logger keeps
// writing to stdout only.
package logger
