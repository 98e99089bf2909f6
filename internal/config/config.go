// Package config sets up shared application state like logging.
package config

import "github.com/retroenv/retrogolib/log"

// CreateLogger creates the application logger, the debug and quiet flags
// move the level off the default.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
