// Package logger builds *slog.Logger values for emailkit services.
//
// New takes functional options and returns a logger. Every registered
// ContextExtractor runs on each record, so values carried by the context
// (the chi request id, for example) appear on every log line without being
// passed around explicitly.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "emailkit"),
//		logger.WithLevel(cfg.LogLevel),
//		logger.WithContextExtractors(requestIDExtractor),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "theme updated",
//		logger.EntityKind("theme"),
//		logger.EntityID(t.ID),
//		logger.Duration(time.Since(start)),
//	)
//
// WithEnvironment picks a level and format per environment: text at debug
// level for development, JSON at info level for staging and production.
// WithLevel overrides the level and WithOutput the destination.
//
// The attribute helpers in attr.go keep key names consistent across
// packages. Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("bundle imported", logger.Error(err))
//
// needs no nil check.
package logger
