// Package logger provides structured logging using Zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init initializes the global logger for the given environment.
// Production logs are JSON with ISO-8601 timestamps; every other environment
// gets the colored console encoder. The service name is attached to every entry.
func Init(env, service string) {
	once.Do(func() {
		sugar = withService(build(env), service)
	})
}

func withService(base *zap.Logger, service string) *zap.SugaredLogger {
	return base.With(zap.String("service", service)).Sugar()
}

func build(env string) *zap.Logger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	base, err := cfg.Build()
	if err != nil {
		// Fallback to nop logger if initialization fails.
		return zap.NewNop()
	}
	return base
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development", "finance4all")
	}
	return sugar
}

// Named returns a child of the global logger scoped to a component.
func Named(component string) *zap.SugaredLogger {
	return Get().Named(component)
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
