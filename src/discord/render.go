package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/guildpulse/src/suggestions"
)

const (
	ColorPending  = 0x00AE86
	ColorApproved = 0x00FF00
	ColorRejected = 0xFF0000
)

// SuggestionEmbed renders the post for a suggestion in its current state.
func SuggestionEmbed(s suggestions.Suggestion) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "New Suggestion",
		Description: s.Text,
		Color:       ColorPending,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Submitted by", Value: fmt.Sprintf("<@%s>", s.AuthorID), Inline: true},
		},
		Timestamp: s.CreatedAt.UTC().Format(time.RFC3339),
	}
	if s.AuthorAvatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: s.AuthorAvatarURL}
	}

	switch s.Status {
	case suggestions.StatusApproved:
		embed.Color = ColorApproved
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Suggestion approved"}
	case suggestions.StatusRejected:
		embed.Color = ColorRejected
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Suggestion rejected"}
	}
	return embed
}

// SuggestionButtons returns the approve and reject buttons of a pending post.
func SuggestionButtons(id string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Approve",
					Style:    discordgo.SuccessButton,
					CustomID: suggestions.CustomID(suggestions.ActionApprove, id),
				},
				discordgo.Button{
					Label:    "Reject",
					Style:    discordgo.DangerButton,
					CustomID: suggestions.CustomID(suggestions.ActionReject, id),
				},
			},
		},
	}
}

// ResolutionReply is the public reply posted under a resolved suggestion.
func ResolutionReply(status suggestions.Status) string {
	switch status {
	case suggestions.StatusApproved:
		return "✅ **Suggestion approved**"
	case suggestions.StatusRejected:
		return "❌ **Suggestion rejected**"
	}
	return ""
}
