package suggestions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	shareddiscord "github.com/stake-plus/guildpulse/src/discord"
	"github.com/stake-plus/guildpulse/src/logging"
	sharedsuggestions "github.com/stake-plus/guildpulse/src/suggestions"
	"go.uber.org/zap"
)

const (
	handlerTimeout       = 10 * time.Second
	genericSubmitFailure = "Something went wrong while sending your suggestion. Please try again later."
)

// ChannelNamer resolves a channel ID to its name.
type ChannelNamer interface {
	ChannelName(ctx context.Context, channelID string) (string, error)
}

// Handler encapsulates the /suggest action and the moderation buttons.
type Handler struct {
	Workflow *sharedsuggestions.Workflow
	Channels ChannelNamer
	Log      *zap.Logger
}

// HandleSlash executes /suggest.
func (h *Handler) HandleSlash(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer shareddiscord.Recover(h.Log, "suggestions.slash")
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		h.reply(i, shareddiscord.RespondEphemeral(s, i.Interaction, "This command only works in a server.", discordgo.WithContext(ctx)))
		return
	}

	if err := shareddiscord.Defer(s, i.Interaction, true, discordgo.WithContext(ctx)); err != nil {
		logging.PlatformError(h.Log, "suggestions: failed to acknowledge interaction", err)
		return
	}

	channelName, err := h.Channels.ChannelName(ctx, i.ChannelID)
	if err != nil {
		logging.PlatformError(h.Log, "suggestions: channel lookup failed", err, zap.String("channel", i.ChannelID))
		h.reply(i, shareddiscord.EditResponse(s, i.Interaction, genericSubmitFailure, discordgo.WithContext(ctx)))
		return
	}

	user := i.Member.User
	_, err = h.Workflow.Submit(ctx, sharedsuggestions.SubmitRequest{
		GuildID:           i.GuildID,
		AuthorID:          user.ID,
		AuthorName:        user.Username,
		AuthorAvatarURL:   user.AvatarURL("256"),
		OriginChannelName: channelName,
		Text:              shareddiscord.StringOption(i.ApplicationCommandData(), shareddiscord.OptionMessage),
	})
	if err != nil && !isUserError(err) {
		logging.PlatformError(h.Log, "suggestions: submit failed", err, zap.String("user", user.ID))
	}

	msg := h.submitReply(err, user.ID)
	h.reply(i, shareddiscord.EditResponse(s, i.Interaction, msg, discordgo.WithContext(ctx)))
}

// HandleButton executes an approve or reject press.
func (h *Handler) HandleButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer shareddiscord.Recover(h.Log, "suggestions.button")

	action, id, ok := sharedsuggestions.ParseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := shareddiscord.Defer(s, i.Interaction, true, discordgo.WithContext(ctx)); err != nil {
		logging.PlatformError(h.Log, "suggestions: failed to acknowledge interaction", err)
		return
	}

	actorID := shareddiscord.InvokerID(i.Interaction)
	_, err := h.Workflow.Resolve(ctx, sharedsuggestions.ResolveRequest{
		GuildID:      i.GuildID,
		ActorID:      actorID,
		SuggestionID: id,
		Action:       action,
	})
	if err != nil && !isUserError(err) {
		logging.PlatformError(h.Log, "suggestions: resolve failed", err,
			zap.String("suggestion", id), zap.String("actor", actorID))
	}

	h.reply(i, shareddiscord.EditResponse(s, i.Interaction, resolveReply(action, err), discordgo.WithContext(ctx)))
}

func (h *Handler) reply(i *discordgo.InteractionCreate, err error) {
	if err != nil {
		logging.PlatformError(h.Log, "suggestions: failed to respond", err, zap.String("interaction", i.ID))
	}
}

func isUserError(err error) bool {
	for _, target := range []error{
		sharedsuggestions.ErrWrongChannel,
		sharedsuggestions.ErrMissingSuggestionChannel,
		sharedsuggestions.ErrUnauthorized,
		sharedsuggestions.ErrCooldown,
		sharedsuggestions.ErrEmptySuggestion,
		sharedsuggestions.ErrNotFound,
		sharedsuggestions.ErrAlreadyResolved,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (h *Handler) submitReply(err error, userID string) string {
	wf := h.Workflow
	switch {
	case err == nil:
		return fmt.Sprintf("Your suggestion has been sent to #%s!", wf.SuggestionChannel)
	case errors.Is(err, sharedsuggestions.ErrWrongChannel):
		return fmt.Sprintf("This command can only be used in the #%s channel!", wf.CommandChannel)
	case errors.Is(err, sharedsuggestions.ErrMissingSuggestionChannel):
		return fmt.Sprintf("The #%s channel was not found! Please create a channel with that name.", wf.SuggestionChannel)
	case errors.Is(err, sharedsuggestions.ErrCooldown):
		wait := wf.Limiter.Remaining(userID, time.Now()).Round(time.Second)
		return fmt.Sprintf("You are sending suggestions too quickly. Try again in %s.", wait)
	case errors.Is(err, sharedsuggestions.ErrEmptySuggestion):
		return "Your suggestion is empty."
	}
	return genericSubmitFailure
}

func resolveReply(action sharedsuggestions.Action, err error) string {
	switch {
	case err == nil && action == sharedsuggestions.ActionApprove:
		return "Suggestion approved!"
	case err == nil:
		return "Suggestion rejected!"
	case errors.Is(err, sharedsuggestions.ErrUnauthorized):
		return "You need to be a moderator to do this!"
	case errors.Is(err, sharedsuggestions.ErrAlreadyResolved):
		return "This suggestion has already been resolved."
	case errors.Is(err, sharedsuggestions.ErrNotFound):
		return "This suggestion no longer exists."
	}
	return "Something went wrong, please try again later."
}
