// Package logger provides structured, component-scoped logging on top of
// zerolog.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("speech")
//	log.Info("pipeline finished", map[string]interface{}{
//	    logger.FieldSegments: len(segments),
//	})
package logger
