package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	CommandActivity    = "activity"
	CommandLeaderboard = "leaderboard"
	CommandSuggest     = "suggest"

	// OptionMessage is the text option of /suggest.
	OptionMessage = "message"
)

var commandDefinitions = map[string]*discordgo.ApplicationCommand{
	CommandActivity: {
		Name:        CommandActivity,
		Description: "Show your active time and the most active members",
	},
	CommandLeaderboard: {
		Name:        CommandLeaderboard,
		Description: "Show the word count leaderboard",
	},
	CommandSuggest: {
		Name:        CommandSuggest,
		Description: "Send a suggestion to the moderators",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionMessage,
				Description: "Your suggestion",
				Required:    true,
			},
		},
	},
}

var defaultCommandOrder = []string{
	CommandActivity,
	CommandLeaderboard,
	CommandSuggest,
}

// Definition returns the registered definition for a command name.
func Definition(name string) (*discordgo.ApplicationCommand, bool) {
	def, ok := commandDefinitions[name]
	return def, ok
}

// RegisterSlashCommands registers the requested slash commands. An empty
// guildID registers them globally. When no command names are provided, all
// known commands are registered.
func RegisterSlashCommands(s *discordgo.Session, guildID string, log *zap.Logger, names ...string) error {
	if s.State == nil || s.State.User == nil {
		return fmt.Errorf("discord: session is not ready")
	}
	if len(names) == 0 {
		names = defaultCommandOrder
	}

	var failures []string
	for _, name := range names {
		definition, ok := commandDefinitions[name]
		if !ok {
			log.Warn("discord: unknown slash command", zap.String("command", name))
			continue
		}

		_, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, definition)
		if err != nil {
			if isDuplicateCommandError(err) {
				log.Debug("discord: slash command already registered", zap.String("command", name))
				continue
			}
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			log.Error("discord: failed to register command", zap.String("command", name), zap.Error(err))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("discord: slash command registration errors: %s", strings.Join(failures, "; "))
	}

	return nil
}

// DeleteSlashCommands removes all registered slash commands for a guild, or
// the global ones when guildID is empty. It returns the number removed.
func DeleteSlashCommands(s *discordgo.Session, appID, guildID string) (int, error) {
	commands, err := s.ApplicationCommands(appID, guildID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, cmd := range commands {
		if err := s.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

func isDuplicateCommandError(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			msg := strings.ToLower(restErr.Message.Message)
			if strings.Contains(msg, "already exists") {
				return true
			}
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "50035") && strings.Contains(msg, "already exists")
}

// StringOption returns the trimmed value of a string option.
func StringOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return strings.TrimSpace(opt.StringValue())
		}
	}
	return ""
}
