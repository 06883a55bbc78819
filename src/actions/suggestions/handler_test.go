package suggestions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	shareddiscord "github.com/stake-plus/guildpulse/src/discord"
	"github.com/stake-plus/guildpulse/src/discord/discordtest"
	sharedsuggestions "github.com/stake-plus/guildpulse/src/suggestions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubmitReply(t *testing.T) {
	limiter := sharedsuggestions.NewRateLimiter(time.Hour)
	limiter.Allow("u1", time.Now())
	h := &Handler{Workflow: &sharedsuggestions.Workflow{
		CommandChannel:    "commands",
		SuggestionChannel: "ideas",
		Limiter:           limiter,
	}}

	assert.Equal(t, "Your suggestion has been sent to #ideas!", h.submitReply(nil, "u1"))
	assert.Equal(t, "This command can only be used in the #commands channel!",
		h.submitReply(sharedsuggestions.ErrWrongChannel, "u1"))
	assert.Contains(t, h.submitReply(sharedsuggestions.ErrMissingSuggestionChannel, "u1"), "#ideas channel was not found")
	assert.Contains(t, h.submitReply(sharedsuggestions.ErrCooldown, "u1"), "Try again in")
	assert.Equal(t, "Your suggestion is empty.", h.submitReply(sharedsuggestions.ErrEmptySuggestion, "u1"))
	assert.Contains(t, h.submitReply(errors.New("boom"), "u1"), "Something went wrong")
}

func TestResolveReply(t *testing.T) {
	assert.Equal(t, "Suggestion approved!", resolveReply(sharedsuggestions.ActionApprove, nil))
	assert.Equal(t, "Suggestion rejected!", resolveReply(sharedsuggestions.ActionReject, nil))
	assert.Equal(t, "You need to be a moderator to do this!",
		resolveReply(sharedsuggestions.ActionApprove, sharedsuggestions.ErrUnauthorized))
	assert.Equal(t, "This suggestion has already been resolved.",
		resolveReply(sharedsuggestions.ActionReject, fmt.Errorf("wrapped: %w", sharedsuggestions.ErrAlreadyResolved)))
	assert.Equal(t, "This suggestion no longer exists.",
		resolveReply(sharedsuggestions.ActionReject, sharedsuggestions.ErrNotFound))
}

func TestIsUserError(t *testing.T) {
	assert.True(t, isUserError(sharedsuggestions.ErrCooldown))
	assert.True(t, isUserError(fmt.Errorf("x: %w", sharedsuggestions.ErrWrongChannel)))
	assert.False(t, isUserError(&sharedsuggestions.PlatformError{Op: "post suggestion", Err: errors.New("403")}))
}

type stubPlatform struct {
	posted   []sharedsuggestions.Suggestion
	resolved []sharedsuggestions.Suggestion
}

func (p *stubPlatform) FindChannel(_ context.Context, _, name string) (string, error) {
	if name != "ideas" {
		return "", sharedsuggestions.ErrMissingSuggestionChannel
	}
	return "chan-ideas", nil
}

func (p *stubPlatform) PostSuggestion(_ context.Context, _ string, s sharedsuggestions.Suggestion) (string, error) {
	p.posted = append(p.posted, s)
	return "msg-1", nil
}

func (p *stubPlatform) ShowResolution(_ context.Context, s sharedsuggestions.Suggestion) error {
	p.resolved = append(p.resolved, s)
	return nil
}

func (p *stubPlatform) AnnounceResolution(context.Context, sharedsuggestions.Suggestion) error {
	return nil
}

func (p *stubPlatform) Member(_ context.Context, _, userID string) (*sharedsuggestions.Member, error) {
	role := sharedsuggestions.Role{ID: "r1", Name: "Member"}
	if userID == "mod" {
		role = sharedsuggestions.Role{ID: "r2", Name: "Moderator"}
	}
	return &sharedsuggestions.Member{UserID: userID, Roles: []sharedsuggestions.Role{role}}, nil
}

type stubChannels struct {
	name string
	err  error
}

func (c stubChannels) ChannelName(context.Context, string) (string, error) {
	return c.name, c.err
}

func newTestHandler(channels ChannelNamer) (*Handler, *stubPlatform, *sharedsuggestions.MemoryRegistry) {
	platform := &stubPlatform{}
	registry := sharedsuggestions.NewMemoryRegistry()
	return &Handler{
		Workflow: &sharedsuggestions.Workflow{
			Registry:          registry,
			Platform:          platform,
			Authorizer:        sharedsuggestions.NewAuthorizer(nil, []string{"moderator"}),
			Limiter:           sharedsuggestions.NewRateLimiter(0),
			CommandChannel:    "commands",
			SuggestionChannel: "ideas",
			Log:               zap.NewNop(),
		},
		Channels: channels,
		Log:      zap.NewNop(),
	}, platform, registry
}

func slashInteraction(text string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "i1",
		AppID:     "app1",
		Token:     "tok",
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "g1",
		ChannelID: "chan-cmd",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "user", Username: "alice"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name: shareddiscord.CommandSuggest,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name:  shareddiscord.OptionMessage,
				Type:  discordgo.ApplicationCommandOptionString,
				Value: text,
			}},
		},
	}}
}

func buttonInteraction(actorID, customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "i2",
		AppID:   "app1",
		Token:   "tok2",
		Type:    discordgo.InteractionMessageComponent,
		GuildID: "g1",
		Member:  &discordgo.Member{User: &discordgo.User{ID: actorID}},
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.ButtonComponent,
		},
	}}
}

// requireDeferredEdit checks the acknowledge-then-edit sequence and returns
// the edited content.
func requireDeferredEdit(t *testing.T, reqs []discordtest.Request, id, token string) string {
	t.Helper()
	require.Len(t, reqs, 2)

	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/interactions/"+id+"/"+token+"/callback", reqs[0].Path)
	assert.Equal(t, float64(discordgo.InteractionResponseDeferredChannelMessageWithSource), reqs[0].Body["type"])
	data, ok := reqs[0].Body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(discordgo.MessageFlagsEphemeral), data["flags"])

	assert.Equal(t, http.MethodPatch, reqs[1].Method)
	assert.Equal(t, "/webhooks/app1/"+token+"/messages/@original", reqs[1].Path)
	content, _ := reqs[1].Body["content"].(string)
	return content
}

func TestHandleSlashSubmits(t *testing.T) {
	session, srv := discordtest.NewSession(t)
	h, platform, registry := newTestHandler(stubChannels{name: "bot-commands"})

	h.HandleSlash(session, slashInteraction("  a music channel "))

	content := requireDeferredEdit(t, srv.Requests(), "i1", "tok")
	assert.Equal(t, "Your suggestion has been sent to #ideas!", content)

	require.Len(t, platform.posted, 1)
	assert.Equal(t, "a music channel", platform.posted[0].Text)
	pending, err := registry.List(context.Background(), sharedsuggestions.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "msg-1", pending[0].MessageID)
}

func TestHandleSlashWrongChannel(t *testing.T) {
	session, srv := discordtest.NewSession(t)
	h, platform, _ := newTestHandler(stubChannels{name: "general"})

	h.HandleSlash(session, slashInteraction("idea"))

	content := requireDeferredEdit(t, srv.Requests(), "i1", "tok")
	assert.Equal(t, "This command can only be used in the #commands channel!", content)
	assert.Empty(t, platform.posted)
}

func TestHandleSlashChannelLookupFailure(t *testing.T) {
	session, srv := discordtest.NewSession(t)
	h, platform, registry := newTestHandler(stubChannels{err: errors.New("503 Service Unavailable")})

	h.HandleSlash(session, slashInteraction("idea"))

	content := requireDeferredEdit(t, srv.Requests(), "i1", "tok")
	assert.Equal(t, genericSubmitFailure, content)
	assert.NotContains(t, content, "#commands")
	assert.Empty(t, platform.posted)
	all, err := registry.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestHandleSlashOutsideGuild(t *testing.T) {
	session, srv := discordtest.NewSession(t)
	h, _, _ := newTestHandler(stubChannels{name: "commands"})
	i := slashInteraction("idea")
	i.GuildID = ""
	i.Member = nil
	i.User = &discordgo.User{ID: "user"}

	h.HandleSlash(session, i)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, float64(discordgo.InteractionResponseChannelMessageWithSource), reqs[0].Body["type"])
}

func TestHandleSlashAcknowledgeFailure(t *testing.T) {
	session, srv := discordtest.NewSession(t)
	srv.Fail("/callback", http.StatusNotFound, "Unknown interaction")
	h, platform, _ := newTestHandler(stubChannels{name: "commands"})

	h.HandleSlash(session, slashInteraction("idea"))

	assert.Len(t, srv.Requests(), 1)
	assert.Empty(t, platform.posted)
}

func TestHandleButtonApproves(t *testing.T) {
	session, srv := discordtest.NewSession(t)
	h, platform, registry := newTestHandler(stubChannels{})
	ctx := context.Background()
	s := sharedsuggestions.NewSuggestion("g1", "user", "alice", "", "idea", time.Now())
	require.NoError(t, registry.Create(ctx, s))

	h.HandleButton(session, buttonInteraction("mod", sharedsuggestions.CustomID(sharedsuggestions.ActionApprove, s.ID)))

	content := requireDeferredEdit(t, srv.Requests(), "i2", "tok2")
	assert.Equal(t, "Suggestion approved!", content)
	got, err := registry.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, sharedsuggestions.StatusApproved, got.Status)
	assert.Len(t, platform.resolved, 1)
}

func TestHandleButtonUnauthorized(t *testing.T) {
	session, srv := discordtest.NewSession(t)
	h, platform, registry := newTestHandler(stubChannels{})
	ctx := context.Background()
	s := sharedsuggestions.NewSuggestion("g1", "user", "alice", "", "idea", time.Now())
	require.NoError(t, registry.Create(ctx, s))

	h.HandleButton(session, buttonInteraction("user", sharedsuggestions.CustomID(sharedsuggestions.ActionReject, s.ID)))

	content := requireDeferredEdit(t, srv.Requests(), "i2", "tok2")
	assert.Equal(t, "You need to be a moderator to do this!", content)
	got, err := registry.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, sharedsuggestions.StatusPending, got.Status)
	assert.Empty(t, platform.resolved)
}

func TestHandleButtonIgnoresForeignComponents(t *testing.T) {
	session, srv := discordtest.NewSession(t)
	h, _, _ := newTestHandler(stubChannels{})

	h.HandleButton(session, buttonInteraction("mod", "poll_vote:1"))

	assert.Empty(t, srv.Requests())
}
