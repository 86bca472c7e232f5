// Package logger provides structured logging for returners using zerolog.
//
// Loggers are scoped by component ("mongo", "xmpp") and carry structured
// fields such as the job id, the minion id and a per-dispatch correlation id.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("mongo")
//	log.Info("document stored", logger.Fields("collection", "web01"))
package logger
