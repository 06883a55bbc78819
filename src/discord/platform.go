package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/guildpulse/src/engagement"
	"github.com/stake-plus/guildpulse/src/suggestions"
	"go.uber.org/zap"
)

var (
	_ suggestions.Platform    = (*Platform)(nil)
	_ engagement.NameResolver = (*Platform)(nil)
)

// Platform adapts a discordgo session to the suggestion workflow and the
// activity report. Lookups go to the state cache first and fall back to REST.
type Platform struct {
	session *discordgo.Session
	log     *zap.Logger
}

// NewPlatform wraps a session.
func NewPlatform(session *discordgo.Session, log *zap.Logger) *Platform {
	return &Platform{session: session, log: log}
}

// FindChannel returns the guild text channel whose name equals name, ignoring case.
func (p *Platform) FindChannel(ctx context.Context, guildID, name string) (string, error) {
	var channels []*discordgo.Channel
	if guild, err := p.session.State.Guild(guildID); err == nil {
		channels = guild.Channels
	}
	if len(channels) == 0 {
		fetched, err := p.session.GuildChannels(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return "", err
		}
		channels = fetched
	}
	if id := matchChannel(channels, name); id != "" {
		return id, nil
	}
	return "", suggestions.ErrMissingSuggestionChannel
}

func matchChannel(channels []*discordgo.Channel, name string) string {
	for _, ch := range channels {
		if ch == nil || ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		if strings.EqualFold(ch.Name, name) {
			return ch.ID
		}
	}
	return ""
}

// ChannelName resolves a channel ID to its name.
func (p *Platform) ChannelName(ctx context.Context, channelID string) (string, error) {
	if ch, err := p.session.State.Channel(channelID); err == nil {
		return ch.Name, nil
	}
	ch, err := p.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return ch.Name, nil
}

func (p *Platform) PostSuggestion(ctx context.Context, channelID string, s suggestions.Suggestion) (string, error) {
	msg, err := p.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{SuggestionEmbed(s)},
		Components: SuggestionButtons(s.ID),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (p *Platform) ShowResolution(ctx context.Context, s suggestions.Suggestion) error {
	if s.ChannelID == "" || s.MessageID == "" {
		return fmt.Errorf("suggestion %s has no message", s.ID)
	}
	edit := discordgo.NewMessageEdit(s.ChannelID, s.MessageID).
		SetEmbeds([]*discordgo.MessageEmbed{SuggestionEmbed(s)})
	empty := []discordgo.MessageComponent{}
	edit.Components = &empty
	_, err := p.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return err
}

func (p *Platform) AnnounceResolution(ctx context.Context, s suggestions.Suggestion) error {
	if s.ChannelID == "" || s.MessageID == "" {
		return fmt.Errorf("suggestion %s has no message", s.ID)
	}
	_, err := p.session.ChannelMessageSendReply(s.ChannelID, ResolutionReply(s.Status), &discordgo.MessageReference{
		MessageID: s.MessageID,
		ChannelID: s.ChannelID,
		GuildID:   s.GuildID,
	}, discordgo.WithContext(ctx))
	return err
}

// Member resolves a guild member with role names and permissions.
func (p *Platform) Member(ctx context.Context, guildID, userID string) (*suggestions.Member, error) {
	member, err := p.guildMember(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	roles := make(map[string]*discordgo.Role)
	if guild, err := p.session.State.Guild(guildID); err == nil {
		for _, r := range guild.Roles {
			roles[r.ID] = r
		}
	}
	if missingRoles(roles, member.Roles) {
		fetched, err := p.session.GuildRoles(guildID, discordgo.WithContext(ctx))
		if err != nil {
			p.log.Warn("discord: role lookup failed", zap.String("guild", guildID), zap.Error(err))
		}
		for _, r := range fetched {
			roles[r.ID] = r
		}
	}
	return toMember(member, roles), nil
}

func (p *Platform) guildMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if m, err := p.session.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	return p.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
}

func missingRoles(known map[string]*discordgo.Role, ids []string) bool {
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return true
		}
	}
	return false
}

func toMember(m *discordgo.Member, roles map[string]*discordgo.Role) *suggestions.Member {
	out := &suggestions.Member{Permissions: m.Permissions}
	if m.User != nil {
		out.UserID = m.User.ID
	}
	for _, id := range m.Roles {
		role := suggestions.Role{ID: id}
		if r, ok := roles[id]; ok && r != nil {
			role.Name = r.Name
			role.Permissions = r.Permissions
		}
		out.Roles = append(out.Roles, role)
	}
	return out
}

// DisplayName returns the member's server nickname, global name or username.
func (p *Platform) DisplayName(ctx context.Context, guildID, userID string) (string, error) {
	member, err := p.guildMember(ctx, guildID, userID)
	if err != nil {
		return "", err
	}
	return displayName(member), nil
}

func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User == nil {
		return ""
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}
