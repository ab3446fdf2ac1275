// Package logging builds the zap loggers shared by plugins and middlewares.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production logger named after the plugin. debug lowers the level to Debug.
func New(name string, debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named(name), nil
}

// OrNop is New for package init paths: on failure it returns a no-op logger.
func OrNop(name string, debug bool) *zap.Logger {
	logger, err := New(name, debug)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
