package discord

import (
	"fmt"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// RespondEphemeral answers an interaction with a message only the invoker sees.
func RespondEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string, options ...discordgo.RequestOption) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, options...)
}

// RespondPublic answers an interaction with a message visible to the channel.
func RespondPublic(s *discordgo.Session, i *discordgo.Interaction, content string, options ...discordgo.RequestOption) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			AllowedMentions: &discordgo.MessageAllowedMentions{
				Parse: []discordgo.AllowedMentionType{},
			},
		},
	}, options...)
}

// Defer acknowledges an interaction; the answer follows through EditResponse.
func Defer(s *discordgo.Session, i *discordgo.Interaction, ephemeral bool, options ...discordgo.RequestOption) error {
	resp := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	return s.InteractionRespond(i, resp, options...)
}

// EditResponse replaces the content of a deferred interaction response.
// Mentions in content are rendered but do not notify.
func EditResponse(s *discordgo.Session, i *discordgo.Interaction, content string, options ...discordgo.RequestOption) error {
	_, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content:         &content,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}, options...)
	return err
}

// Recover logs a panic raised inside an event handler instead of crashing
// the process. Use it as `defer discord.Recover(log, "event")`.
func Recover(log *zap.Logger, where string) {
	if r := recover(); r != nil {
		log.Error("discord: handler panic",
			zap.String("handler", where),
			zap.String("panic", fmt.Sprint(r)),
			zap.ByteString("stack", debug.Stack()))
	}
}

// InvokerID returns the user behind an interaction in a guild or a DM.
func InvokerID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
