package logger

import (
	"context"

	"github.com/sparklinkhq/sparklink/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFromConfig builds the logger from application config.
func NewFromConfig(cfg config.Config) (*zap.Logger, error) {
	return New(cfg.AppName, cfg.LogLevel, cfg.Environment)
}

func flushOnStop(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
}

var Module = fx.Module("logger",
	fx.Provide(NewFromConfig),
	fx.Invoke(flushOnStop),
)
