package commands

import (
	"testing"

	"github.com/stake-plus/guildpulse/src/config"
	"github.com/stake-plus/guildpulse/src/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func resetSettings(t *testing.T) {
	t.Helper()
	require.NoError(t, config.Init(""))
	t.Cleanup(func() {
		_ = config.Init("")
		data.SetSettings(nil)
	})
}

func TestReloadLoggerAppliesSettingsTable(t *testing.T) {
	resetSettings(t)
	f := &Flags{Log: zap.NewNop()}
	prev := f.logConfig()
	assert.Equal(t, "info", prev.Level)

	data.SetSettings(map[string]string{"log_level": "debug"})
	require.NoError(t, f.reloadLogger(prev))

	assert.True(t, f.Log.Core().Enabled(zap.DebugLevel))
}

func TestReloadLoggerKeepsFlagLevel(t *testing.T) {
	resetSettings(t)
	nop := zap.NewNop()
	f := &Flags{LogLevel: "warn", Log: nop}
	prev := f.logConfig()

	data.SetSettings(map[string]string{"log_level": "debug"})
	require.NoError(t, f.reloadLogger(prev))

	assert.Same(t, nop, f.Log)
	assert.Equal(t, "warn", f.logConfig().Level)
}

func TestReloadLoggerRejectsBadLevel(t *testing.T) {
	resetSettings(t)
	f := &Flags{Log: zap.NewNop()}
	prev := f.logConfig()

	data.SetSettings(map[string]string{"log_level": "loud"})
	assert.Error(t, f.reloadLogger(prev))
}
