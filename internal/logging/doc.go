// Package logging provides structured logging for mosqcat.
//
// This package wraps Go's standard log/slog package so every component,
// the mosq client library included, logs through one configured handler.
//
// # Features
//
//   - JSON output for scripting (machine-parsable)
//   - Text output for interactive use (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig section of the config
// file:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// Output defaults to stderr so logs never mix with payloads printed to
// stdout by the sub command.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("connected", "broker", "localhost:1883")
//
// A *Logger satisfies the mosq.Logger interface and can be attached to a
// client with SetLogger.
package logging
