package actions

import (
	"github.com/stake-plus/guildpulse/src/actions/core"
	"go.uber.org/zap"
)

type (
	// Manager re-exports the core.Manager for consumers outside the actions package.
	Manager = core.Manager
	// Module re-exports the core.Module interface.
	Module = core.Module
)

// NewManager is a helper that forwards to core.NewManager.
func NewManager(log *zap.Logger, mods ...Module) *Manager {
	return core.NewManager(log, mods...)
}
