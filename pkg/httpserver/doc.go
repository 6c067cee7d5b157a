// Package httpserver runs an http.Handler with sane timeouts and graceful
// shutdown.
//
// Run binds the listener, calls the start hooks and serves until the context
// is cancelled, SIGINT or SIGTERM arrives, or Shutdown is called. Shutdown
// waits for in-flight requests up to the shutdown timeout and then runs the
// stop hooks.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(*slog.Logger) { _ = store.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// LivenessHandler and ReadinessHandler back the /health/live and
// /health/ready probes.
package httpserver
