// Package logger provides a structured logging facility based on Zap.
//
// The default level is warn, so a command line run only prints what needs
// attention. Setting log.level to debug switches to zap's development config and
// shows per-secret progress and the planned jobs (usernames masked, passwords
// never logged).
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json or console
//   - File: optional rotating log file (lumberjack), with MaxSizeMB, MaxBackups
//     and MaxAgeDays
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Warn("Skipping secret", zap.String("secret", name))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
