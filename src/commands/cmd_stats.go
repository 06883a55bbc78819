package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/stake-plus/guildpulse/src/config"
	"github.com/stake-plus/guildpulse/src/engagement"
	"github.com/urfave/cli/v3"
)

type StatsCmd struct {
	flags *Flags
	top   int64
}

// NewStatsCmd creates the stats command
func NewStatsCmd(flags *Flags) *StatsCmd {
	return &StatsCmd{flags: flags}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "stats",
		Usage:       "Print both leaderboards from the data file",
		UsageText:   "guildpulse stats [--top N]",
		Description: "Reads the engagement data file offline; the bot does not need to be running.",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "top",
				Aliases:     []string{"n"},
				Usage:       "number of users per leaderboard",
				Value:       10,
				Destination: &cmd.top,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *StatsCmd) run(_ context.Context, c *cli.Command) error {
	if cmd.top < 1 {
		return fmt.Errorf("--top must be at least 1")
	}
	cfg := config.LoadEngagementConfig()
	doc := engagement.NewStore(cfg.DataFile, cmd.flags.Log).Load()
	return printStats(c.Root().Writer, doc, int(cmd.top))
}

func printStats(out io.Writer, doc engagement.Document, top int) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "ACTIVITY\tUSER\tTIME")
	activity := engagement.RankByActivity(doc)
	for i, e := range activity.Top(top) {
		h, m := engagement.SplitMinutes(e.ActiveMinutes)
		_, _ = fmt.Fprintf(w, "%d\t%s\t%dh %dm\n", i+1, e.UserID, h, m)
	}
	if len(activity.Entries) == 0 {
		_, _ = fmt.Fprintln(w, "-\tno data\t-")
	}

	_, _ = fmt.Fprintln(w, "\t\t")
	_, _ = fmt.Fprintln(w, "WORDS\tUSER\tCOUNT")
	words := engagement.RankByWords(doc)
	for i, e := range words.Top(top) {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, e.UserID, e.Words)
	}
	if len(words.Entries) == 0 {
		_, _ = fmt.Fprintln(w, "-\tno data\t-")
	}

	return w.Flush()
}
