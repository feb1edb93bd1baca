// Package logger provides structured logging for voxpersona using zerolog.
//
// Loggers are created from Config and scoped per component. Pipeline code
// attaches run identifiers through the context so every stage line of one
// run can be correlated.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.New(&cfg, "voxpersona").WithComponent("pipeline")
//	log.Info("stage finished", logger.Fields("stage", "TRANSCRIBING"))
package logger
