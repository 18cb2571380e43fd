// Package logging provides shared logger initialization for formmap binaries.
package logging

import (
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// EnvLevel names the environment variable consulted by NewLogger.
const EnvLevel = "LOG_LEVEL"

// NewLogger creates a logr.Logger backed by Zap. It checks LOG_LEVEL:
// "debug" or "trace" selects a development config with debug-level output;
// any other value (including empty) selects the production config.
// Returns the logger and a sync function the caller should defer.
func NewLogger() (logr.Logger, func(), error) {
	return NewLoggerWithLevel(os.Getenv(EnvLevel))
}

// NewLoggerWithLevel is NewLogger with an explicit level.
func NewLoggerWithLevel(level string) (logr.Logger, func(), error) {
	zapLog, err := newZapLogger(level)
	if err != nil {
		return logr.Logger{}, nil, err
	}
	sync := func() { _ = zapLog.Sync() }
	return zapr.NewLogger(zapLog), sync, nil
}

func newZapLogger(level string) (*zap.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	default:
		return zap.NewProduction()
	}
}
