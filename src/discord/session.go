package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Intents needed to count messages, read their content and resolve members.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsMessageContent

// NewSession creates a bot session with the required intents. The
// connection is opened by the gateway module.
func NewSession(token string) (*discordgo.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("discord: bot token is required")
	}
	session, err := discordgo.New("Bot " + strings.TrimPrefix(token, "Bot "))
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = Intents
	session.StateEnabled = true
	return session, nil
}
