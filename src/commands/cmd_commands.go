package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/guildpulse/src/config"
	"github.com/stake-plus/guildpulse/src/discord"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

type CommandsCmd struct {
	flags  *Flags
	global bool
}

// NewCommandsCmd creates the commands command group
func NewCommandsCmd(flags *Flags) *CommandsCmd {
	return &CommandsCmd{flags: flags}
}

// Register adds the commands group to the application
func (cmd *CommandsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "commands",
		Usage: "Manage the registered slash commands",
		Commands: []*cli.Command{
			{
				Name:        "purge",
				Usage:       "Remove the registered slash commands",
				UsageText:   "guildpulse commands purge [--global]",
				Description: "Removes the commands of GUILD_ID, or the global ones when no guild is configured or --global is set.",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "global",
						Usage:       "purge global commands even when a guild is configured",
						Destination: &cmd.global,
					},
				},
				Action: cmd.purge,
			},
		},
	})
	return app
}

func (cmd *CommandsCmd) purge(ctx context.Context, c *cli.Command) error {
	base := config.LoadBase()
	session, err := discord.NewSession(base.Token)
	if err != nil {
		return err
	}

	me, err := session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("resolve application: %w", err)
	}

	guildID := base.GuildID
	if cmd.global {
		guildID = ""
	}
	removed, err := discord.DeleteSlashCommands(session, me.ID, guildID)
	if err != nil {
		return fmt.Errorf("purge commands: %w", err)
	}

	scope := "global"
	if guildID != "" {
		scope = "guild " + guildID
	}
	cmd.flags.Log.Info("commands: purged", zap.String("scope", scope), zap.Int("removed", removed))
	_, _ = fmt.Fprintf(c.Root().Writer, "removed %d %s command(s)\n", removed, scope)
	return nil
}
