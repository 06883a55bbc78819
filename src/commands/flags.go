// Package commands holds the CLI subcommands.
package commands

import (
	"context"
	"fmt"

	"github.com/stake-plus/guildpulse/src/config"
	"github.com/stake-plus/guildpulse/src/data"
	"github.com/stake-plus/guildpulse/src/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Flags holds global flag values and the clients built from them.
type Flags struct {
	ConfigPath string
	LogLevel   string

	Log *zap.Logger
	DB  *gorm.DB
}

// Setup loads configuration and builds the logger. When a MySQL DSN is set,
// the settings table is loaded and overrides environment values, including
// log_mode and log_level.
func (f *Flags) Setup(ctx context.Context) error {
	if err := config.Init(f.ConfigPath); err != nil {
		return err
	}

	logCfg := f.logConfig()
	log, err := logging.New(logCfg.Mode, logCfg.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	f.Log = log

	if dsn := data.GetMySQLDSN(); dsn != "" {
		db, err := data.ConnectMySQL(dsn, log)
		if err != nil {
			return fmt.Errorf("db: %w", err)
		}
		f.DB = db
		if err := data.LoadSettings(db); err != nil {
			return fmt.Errorf("settings: %w", err)
		}
		if err := f.reloadLogger(logCfg); err != nil {
			return err
		}
		f.Log.Info("config: settings table loaded")
	}
	return nil
}

// logConfig resolves the logger settings; --log-level wins over every source.
func (f *Flags) logConfig() config.LogConfig {
	cfg := config.LoadLogConfig()
	if f.LogLevel != "" {
		cfg.Level = f.LogLevel
	}
	return cfg
}

// reloadLogger rebuilds the logger when the settings resolve differently
// from prev.
func (f *Flags) reloadLogger(prev config.LogConfig) error {
	next := f.logConfig()
	if next == prev {
		return nil
	}
	log, err := logging.New(next.Mode, next.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if f.Log != nil {
		_ = f.Log.Sync()
	}
	f.Log = log
	return nil
}

// Close releases what Setup opened.
func (f *Flags) Close() {
	if f.DB != nil {
		if sqlDB, err := f.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if f.Log != nil {
		_ = f.Log.Sync()
	}
}
