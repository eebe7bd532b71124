// Package server runs an http.Handler with graceful shutdown.
//
//	err := server.Run(ctx, router,
//		server.Address(":8080"),
//		server.Logger(log),
//		server.ShutdownHook(db.Shutdown(pool)),
//	)
package server
