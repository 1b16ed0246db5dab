// Package logging builds the service logger.
package logging

import (
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	AppName string
	Level   string
	// Pretty switches to zap's human-readable development encoder.
	Pretty bool
}

// New returns an ectologger backed by zap, along with a flush function
// to call on shutdown.
func New(cfg Config) (ectologger.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Pretty {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	zl, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	if cfg.AppName != "" {
		zl = zl.With(zap.String("app", cfg.AppName))
	}

	return zapadapter.NewZapEctoLogger(zl, nil), zl.Sync, nil
}
