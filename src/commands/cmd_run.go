package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/stake-plus/guildpulse/src/actions"
	"github.com/stake-plus/guildpulse/src/config"
	"github.com/stake-plus/guildpulse/src/data"
	"github.com/stake-plus/guildpulse/src/discord"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

type RunCmd struct {
	flags *Flags
}

// NewRunCmd creates the run command
func NewRunCmd(flags *Flags) *RunCmd {
	return &RunCmd{flags: flags}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "run",
		Usage:       "Connect to Discord and run the bot",
		UsageText:   "guildpulse run",
		Description: "Starts engagement tracking, the suggestion workflow and, when enabled, the stats API.",
		Action:      cmd.Run,
	})
	return app
}

// Run blocks until SIGINT or SIGTERM.
func (cmd *RunCmd) Run(ctx context.Context, _ *cli.Command) error {
	log := cmd.flags.Log

	session, err := discord.NewSession(config.LoadBase().Token)
	if err != nil {
		return err
	}

	var rdb *redis.Client
	if url := config.LoadSuggestionConfig().RedisURL; url != "" {
		rdb, err = data.ConnectRedis(ctx, url)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, err := actions.StartAll(ctx, actions.Runtime{Session: session, Redis: rdb, Log: log})
	if err != nil {
		return fmt.Errorf("actions start: %w", err)
	}
	log.Info("guildpulse: running", zap.Strings("modules", manager.Modules()))

	<-ctx.Done()
	log.Info("guildpulse: shutting down")
	manager.Stop(context.Background())
	return nil
}
