// Package logging constructs the process-wide debug logger. Reports
// are written to the selected output writer by the formatters; the
// logger only carries diagnostic detail for --debug runs.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing to stderr. With debug disabled the
// logger is a no-op so normal runs stay silent apart from the report.
func New(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
