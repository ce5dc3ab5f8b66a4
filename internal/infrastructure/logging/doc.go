// Package logging provides structured logging for the dashboard core.
//
// It wraps log/slog so that every component logs the same way:
//
//   - JSON output by default, text output for development
//   - service and version fields on every entry
//   - level filtering (debug, info, warn, error)
//
// Logging is configured via the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting service", "port", 8080)
//	logger.Component("storage").Warn("remote unavailable, using local copy", "key", key)
//
// Never log credentials such as the MQTT or Redis password.
package logging
