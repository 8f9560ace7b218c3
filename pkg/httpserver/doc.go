// Package httpserver runs the API with graceful shutdown and health probes.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithOnShutdown("storage", closeStorage),
//	)
//	r.Get("/health/live", httpserver.LivenessHandler())
//	r.Get("/health/ready", httpserver.ReadinessHandler(log, 2*time.Second,
//		httpserver.Probe{Name: "storage", Check: backend.Healthcheck},
//	))
//	err := srv.Run(ctx, r)
//
// Run returns nil after a clean shutdown. Listen failures are wrapped with
// ErrStart, and failures of http.Server.Shutdown or of OnShutdown callbacks
// with ErrShutdown.
package httpserver
