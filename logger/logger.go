package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Defaults to a no-op logger so packages can log before Init runs (tests).
var log = zap.NewNop()

// Init builds the process logger. In development mode output is
// human-readable console encoding; in production structured JSON.
// Unknown levels fall back to info.
func Init(development bool, level string) error {
	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	built, err := config.Build()
	if err != nil {
		return err
	}
	log = built
	return nil
}

// Get returns the logger instance.
func Get() *zap.Logger {
	return log
}

// Sync flushes any buffered log entries.
func Sync() error {
	return log.Sync()
}
