// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Every package takes a *zap.Logger; Component hands one out per subsystem
// so entries can be filtered by the "component" field.
//
// Example Usage:
//
//	logger, err := logging.New(logging.ForMode(cfg.Logging.Level, cfg.Logging.Development))
//	logger.Info("Server starting", zap.String("port", "8000"))
//	svc := storage.New(provider, loop, storage.WithLogger(logger.Component("storage")))
package logging
