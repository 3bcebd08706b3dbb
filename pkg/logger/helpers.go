package logger

import (
	"sync"

	"github.com/press-rouch/twitter-archive-parser/pkg/config"
)

var (
	defaultLogger Logger
	mu            sync.RWMutex
)

// Initialize sets up the package-level logger. Safe to call more than once;
// the last configuration wins.
func Initialize(cfg *config.LoggingConfig) error {
	log, err := New(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	defaultLogger = log
	mu.Unlock()
	return nil
}

// GetLogger returns the package-level logger, falling back to a default
// console logger when Initialize has not been called.
func GetLogger() Logger {
	mu.RLock()
	log := defaultLogger
	mu.RUnlock()

	if log != nil {
		return log
	}

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		fallback, err := New(&config.LoggingConfig{Level: "info"})
		if err != nil {
			// level "info" always parses; this cannot happen
			panic(err)
		}
		defaultLogger = fallback
	}
	return defaultLogger
}

// WithField is a convenience wrapper over the package-level logger
func WithField(key string, value interface{}) Logger {
	return GetLogger().WithField(key, value)
}

// WithError is a convenience wrapper over the package-level logger
func WithError(err error) Logger {
	return GetLogger().WithError(err)
}

// Info logs an info message via the package-level logger
func Info(msg string) {
	GetLogger().Info(msg)
}

// Warn logs a warning message via the package-level logger
func Warn(msg string) {
	GetLogger().Warn(msg)
}

// Error logs an error message via the package-level logger
func Error(msg string) {
	GetLogger().Error(msg)
}
