// Package logger builds the process logger.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a development logger (console, debug level) for the
// development environment and a JSON production logger otherwise.
func New(env string) (*zap.Logger, error) {
	if strings.EqualFold(env, "development") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// OrNop returns log, or a no-op logger when log is nil.
func OrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
