package suggestions

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/guildpulse/src/actions/core"
	sharedconfig "github.com/stake-plus/guildpulse/src/config"
	shareddiscord "github.com/stake-plus/guildpulse/src/discord"
	sharedsuggestions "github.com/stake-plus/guildpulse/src/suggestions"
	"go.uber.org/zap"
)

var _ core.Module = (*Module)(nil)

type Module struct {
	config   *sharedconfig.SuggestionConfig
	session  *discordgo.Session
	registry sharedsuggestions.Registry
	handler  *Handler
	log      *zap.Logger
	remove   func()
}

// Platform is what the module needs from the Discord adapter.
type Platform interface {
	sharedsuggestions.Platform
	ChannelNamer
}

// NewModule wires the workflow. publisher may be nil.
func NewModule(cfg *sharedconfig.SuggestionConfig, session *discordgo.Session, platform Platform,
	registry sharedsuggestions.Registry, publisher sharedsuggestions.Publisher, log *zap.Logger) *Module {
	log = log.With(zap.String("module", "suggestions"))

	workflow := &sharedsuggestions.Workflow{
		Registry:          registry,
		Platform:          platform,
		Authorizer:        sharedsuggestions.NewAuthorizer(cfg.RoleIDs, cfg.RoleKeywords),
		Limiter:           sharedsuggestions.NewRateLimiter(cfg.Cooldown),
		Publisher:         publisher,
		CommandChannel:    cfg.CommandChannel,
		SuggestionChannel: cfg.SuggestionChannel,
		Log:               log,
	}
	return &Module{
		config:   cfg,
		session:  session,
		registry: registry,
		log:      log,
		handler: &Handler{
			Workflow: workflow,
			Channels: platform,
			Log:      log,
		},
	}
}

// Name implements actions.Module.
func (m *Module) Name() string { return "suggestions" }

// Commands lists the slash commands this module answers.
func (m *Module) Commands() []string {
	return []string{shareddiscord.CommandSuggest}
}

// Registry exposes the suggestion records for read-only consumers.
func (m *Module) Registry() sharedsuggestions.Registry { return m.registry }

func (m *Module) Start(ctx context.Context) error {
	m.remove = m.session.AddHandler(m.onInteractionCreate)
	m.log.Info("suggestions: accepting submissions",
		zap.String("command_channel", m.config.CommandChannel),
		zap.String("suggestion_channel", m.config.SuggestionChannel),
		zap.Duration("cooldown", m.config.Cooldown))
	return nil
}

func (m *Module) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == shareddiscord.CommandSuggest {
			m.handler.HandleSlash(s, i)
		}
	case discordgo.InteractionMessageComponent:
		m.handler.HandleButton(s, i)
	}
}

func (m *Module) Stop(ctx context.Context) {
	if m.remove != nil {
		m.remove()
		m.remove = nil
	}
}
