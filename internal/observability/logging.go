// Package observability builds the process-wide structured logger.
//
// Game narration never goes through the logger; it belongs in the player
// journal. The logger carries operational events only.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/emporium/internal/config"
)

// NewLogger builds a zap logger from the logging configuration. The
// "console" format is human-readable for local play; "json" is for
// anything that ships logs somewhere.
//
// Precondition: cfg.Level parses as a zap level and cfg.Format is "json"
// or "console".
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var base zap.Config
	switch cfg.Format {
	case "json":
		base = zap.NewProductionConfig()
	case "console":
		base = zap.NewDevelopmentConfig()
		base.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q (want json or console)", cfg.Format)
	}

	base.Level = zap.NewAtomicLevelAt(level)
	base.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := base.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
