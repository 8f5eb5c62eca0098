// Package logging provides structured logging for the sunshine service.
//
// It wraps log/slog so every entry carries the service name and build
// version, with JSON output for deployments and text output for local runs.
//
// Configuration comes from the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("forecast refreshed", "location", "94043", "days", 14)
//
// Never log the weather API key, MQTT password or InfluxDB token.
package logging
