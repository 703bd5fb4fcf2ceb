// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and can mirror every entry into an append-only operation log file.
//
// # Operation Log
//
// When Config.File is set, all entries are additionally written as JSON to
// that file. The file is opened in append mode so successive CLI invocations
// accumulate a durable record of what the tool did and when.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID (Request ID) from a Fiber context
// and attaches it to the log entry. It is used by the in-memory test server
// so that all logs related to a specific request can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//   - File: optional operation log path
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Import finished")
package logger
