// Package gateway owns the Discord connection shared by the other modules.
package gateway

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/guildpulse/src/actions/core"
	sharedconfig "github.com/stake-plus/guildpulse/src/config"
	shareddiscord "github.com/stake-plus/guildpulse/src/discord"
	"go.uber.org/zap"
)

var _ core.Module = (*Module)(nil)

// Module opens the session after every handler is attached and registers
// the slash commands of the enabled modules once the gateway is ready.
type Module struct {
	base     sharedconfig.Base
	session  *discordgo.Session
	commands []string
	log      *zap.Logger
	remove   func()
}

func NewModule(base sharedconfig.Base, session *discordgo.Session, commands []string, log *zap.Logger) *Module {
	return &Module{
		base:     base,
		session:  session,
		commands: commands,
		log:      log.With(zap.String("module", "gateway")),
	}
}

// Name implements actions.Module.
func (m *Module) Name() string { return "gateway" }

func (m *Module) Start(ctx context.Context) error {
	m.remove = m.session.AddHandler(m.onReady)
	if err := m.session.Open(); err != nil {
		m.remove()
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

func (m *Module) onReady(s *discordgo.Session, r *discordgo.Ready) {
	defer shareddiscord.Recover(m.log, "gateway.ready")
	m.log.Info("gateway: logged in",
		zap.String("user", r.User.Username),
		zap.Int("guilds", len(r.Guilds)))

	if len(m.commands) == 0 {
		return
	}
	scope := "global"
	if m.base.GuildID != "" {
		scope = "guild " + m.base.GuildID
	}
	if err := shareddiscord.RegisterSlashCommands(s, m.base.GuildID, m.log, m.commands...); err != nil {
		m.log.Error("gateway: failed to register slash commands", zap.String("scope", scope), zap.Error(err))
		return
	}
	m.log.Info("gateway: slash commands registered", zap.String("scope", scope), zap.Strings("commands", m.commands))
}

func (m *Module) Stop(ctx context.Context) {
	if m.remove != nil {
		m.remove()
		m.remove = nil
	}
	if err := m.session.Close(); err != nil {
		m.log.Warn("gateway: close failed", zap.Error(err))
	}
}
