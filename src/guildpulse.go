package main

import (
	"context"
	"fmt"
	"os"

	"github.com/stake-plus/guildpulse/src/commands"
	"github.com/urfave/cli/v3"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func main() {
	flags := &commands.Flags{}
	runCmd := commands.NewRunCmd(flags)

	app := &cli.Command{
		Name:      "guildpulse",
		Usage:     "Discord engagement tracking and suggestion moderation bot",
		UsageText: "guildpulse [global options] [command [command options]]",
		Version:   fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to an optional config file (yaml, toml or json)",
				Sources:     cli.EnvVars("GUILDPULSE_CONFIG"),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error); overrides LOG_LEVEL",
				Destination: &flags.LogLevel,
			},
		},
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			return ctx, flags.Setup(ctx)
		},
		After: func(context.Context, *cli.Command) error {
			flags.Close()
			return nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'guildpulse --help' for usage", c.Args().First())
			}
			return runCmd.Run(ctx, c)
		},
	}

	app = runCmd.Register(app)
	app = commands.NewStatsCmd(flags).Register(app)
	app = commands.NewCommandsCmd(flags).Register(app)

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "guildpulse: %v\n", err)
		os.Exit(1)
	}
}
