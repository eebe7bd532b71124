// Package middlewares provides net/http middlewares shared by the HTTP API:
// request IDs, access logging, panic recovery and request timeouts.
//
//	r := chi.NewRouter()
//	r.Use(
//		middlewares.RequestID(),
//		middlewares.Logger(log),
//		middlewares.Recover(middlewares.WithRecoverLogger(log)),
//		middlewares.Timeout(15 * time.Second),
//	)
package middlewares
