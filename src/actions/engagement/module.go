package engagement

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/guildpulse/src/actions/core"
	sharedconfig "github.com/stake-plus/guildpulse/src/config"
	shareddiscord "github.com/stake-plus/guildpulse/src/discord"
	sharedengagement "github.com/stake-plus/guildpulse/src/engagement"
	"go.uber.org/zap"
)

var _ core.Module = (*Module)(nil)

type Module struct {
	config  *sharedconfig.EngagementConfig
	session *discordgo.Session
	tracker *sharedengagement.Tracker
	handler *Handler
	log     *zap.Logger
	remove  []func()
}

// NewModule loads the engagement document and prepares the handlers. The
// tracker is available to other modules before Start.
func NewModule(cfg *sharedconfig.EngagementConfig, session *discordgo.Session, names sharedengagement.NameResolver, log *zap.Logger) *Module {
	log = log.With(zap.String("module", "engagement"))
	store := sharedengagement.NewStore(cfg.DataFile, log)
	tracker := sharedengagement.NewTracker(store, cfg.SessionGap, log)

	return &Module{
		config:  cfg,
		session: session,
		tracker: tracker,
		log:     log,
		handler: &Handler{
			Tracker: tracker,
			Names:   names,
			GuildID: cfg.Base.GuildID,
			Log:     log,
		},
	}
}

// Name implements actions.Module.
func (m *Module) Name() string { return "engagement" }

// Commands lists the slash commands this module answers.
func (m *Module) Commands() []string {
	return []string{shareddiscord.CommandActivity, shareddiscord.CommandLeaderboard}
}

// Tracker exposes the live tracker for read-only consumers.
func (m *Module) Tracker() *sharedengagement.Tracker { return m.tracker }

func (m *Module) Start(ctx context.Context) error {
	m.remove = append(m.remove,
		m.session.AddHandler(m.handler.HandleMessage),
		m.session.AddHandler(m.onInteractionCreate),
	)
	m.log.Info("engagement: tracking messages",
		zap.String("file", m.config.DataFile),
		zap.Duration("session_gap", m.config.SessionGap))
	return nil
}

func (m *Module) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case shareddiscord.CommandActivity:
		m.handler.HandleActivity(s, i)
	case shareddiscord.CommandLeaderboard:
		m.handler.HandleLeaderboard(s, i)
	}
}

func (m *Module) Stop(ctx context.Context) {
	for _, remove := range m.remove {
		remove()
	}
	m.remove = nil
}
