// Package logging builds the zap loggers shared by every module.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger. mode "development"/"dev" selects the console encoder,
// anything else the production JSON encoder.
func New(mode, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "dev", "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", level)
	}
	return lvl, nil
}

// PlatformError logs a failed Discord call, demoting rate limits to warnings.
func PlatformError(log *zap.Logger, msg string, err error, fields ...zap.Field) {
	if log == nil || err == nil {
		return
	}
	fields = append(fields, zap.Error(err))
	if IsRateLimit(err) {
		log.Warn(msg+" (rate limited)", fields...)
		return
	}
	log.Error(msg, fields...)
}
