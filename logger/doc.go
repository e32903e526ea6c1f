// Package logger provides structured logging for the slideshow service
// on top of zerolog.
//
// Loggers are component-scoped and take structured fields as maps:
//
//	log := logger.New(&cfg.Logging, "slideshow").WithComponent("gallery")
//	log.Info("listing served", logger.Fields("prefix", "images/", "count", 12))
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"  # or "json"
package logger
