// Package logger holds the process-wide zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

// Init builds the global logger for env. Production logs JSON at info level;
// every other environment gets the console encoder with debug output.
func Init(env string) {
	var base *zap.Logger
	var err error
	if env == "production" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		base = zap.NewNop()
	}
	Replace(base.Named("civicbudget"))
}

// Replace swaps the global logger. Tests use it to silence output.
func Replace(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = l.Sugar()
}

// Get returns the global sugared logger, creating a development logger on
// first use.
func Get() *zap.SugaredLogger {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init("development")
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if sugar != nil {
		_ = sugar.Sync()
	}
}
