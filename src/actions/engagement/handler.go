package engagement

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	shareddiscord "github.com/stake-plus/guildpulse/src/discord"
	sharedengagement "github.com/stake-plus/guildpulse/src/engagement"
	"github.com/stake-plus/guildpulse/src/logging"
	"go.uber.org/zap"
)

const handlerTimeout = 10 * time.Second

// Handler encapsulates message tracking and the /activity and /leaderboard actions.
type Handler struct {
	Tracker *sharedengagement.Tracker
	Names   sharedengagement.NameResolver
	GuildID string
	Log     *zap.Logger
}

// Tracks reports whether a message counts toward engagement.
func (h *Handler) Tracks(m *discordgo.Message) bool {
	if m == nil || m.Author == nil || m.Author.Bot {
		return false
	}
	if m.GuildID == "" {
		return false
	}
	return h.GuildID == "" || m.GuildID == h.GuildID
}

// HandleMessage feeds a guild message into the tracker.
func (h *Handler) HandleMessage(_ *discordgo.Session, m *discordgo.MessageCreate) {
	defer shareddiscord.Recover(h.Log, "engagement.message")
	if !h.Tracks(m.Message) {
		return
	}

	at := m.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	delta := h.Tracker.Observe(m.Author.ID, m.Content, at)
	if ce := h.Log.Check(zap.DebugLevel, "engagement: message tracked"); ce != nil {
		ce.Write(zap.String("user", m.Author.ID),
			zap.Float64("minutes", delta.Minutes),
			zap.Int64("words", delta.Words))
	}
}

// HandleActivity answers /activity. Member names are resolved over the
// network, so the response is deferred first.
func (h *Handler) HandleActivity(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer shareddiscord.Recover(h.Log, "engagement.activity")
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if i.GuildID == "" {
		h.respondError(i, shareddiscord.RespondEphemeral(s, i.Interaction, "This command only works in a server.", discordgo.WithContext(ctx)))
		return
	}
	if err := shareddiscord.Defer(s, i.Interaction, false, discordgo.WithContext(ctx)); err != nil {
		logging.PlatformError(h.Log, "engagement: failed to acknowledge interaction", err)
		return
	}

	ranking := sharedengagement.RankByActivity(h.Tracker.Snapshot())
	text := sharedengagement.ActivityReport(ctx, h.Names, i.GuildID, shareddiscord.InvokerID(i.Interaction), ranking)
	h.respondError(i, shareddiscord.EditResponse(s, i.Interaction, text, discordgo.WithContext(ctx)))
}

// HandleLeaderboard answers /leaderboard.
func (h *Handler) HandleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer shareddiscord.Recover(h.Log, "engagement.leaderboard")
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	ranking := sharedengagement.RankByWords(h.Tracker.Snapshot())
	text := sharedengagement.WordReport(shareddiscord.InvokerID(i.Interaction), ranking)
	h.respondError(i, shareddiscord.RespondPublic(s, i.Interaction, text, discordgo.WithContext(ctx)))
}

func (h *Handler) respondError(i *discordgo.InteractionCreate, err error) {
	if err != nil {
		logging.PlatformError(h.Log, "engagement: failed to respond", err, zap.String("interaction", i.ID))
	}
}
