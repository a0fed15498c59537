package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every line as the "service" field.
const ServiceName = "cvdex"

// NewLogger builds the process logger for env:
// prod/production write JSON at info, local/dev/docker write colored console
// lines at debug, test discards everything. A non-empty level overrides the
// environment default (debug, info, warn, error).
func NewLogger(env, level string) (*zap.Logger, error) {
	if env == "test" {
		return zap.NewNop(), nil
	}
	cfg, err := configFor(env)
	if err != nil {
		return nil, err
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.With(zap.String("service", ServiceName)), nil
}

func configFor(env string) (zap.Config, error) {
	switch env {
	case "prod", "production":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg, nil
	case "local", "dev", "docker":
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg, nil
	default:
		return zap.Config{}, fmt.Errorf("unknown environment %q for logger", env)
	}
}
