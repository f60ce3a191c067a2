package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-hotcold/internal/report"
)

var gamelogTeam bool

var gamelogCmd = &cobra.Command{
	Use:   "gamelog <player|team>",
	Short: "Show a raw season game log",
	Args:  cobra.ExactArgs(1),
	RunE:  runGamelog,
}

func init() {
	gamelogCmd.Flags().BoolVar(&gamelogTeam, "team", false, "treat the argument as a team")
}

func runGamelog(cmd *cobra.Command, args []string) error {
	src, closeSrc, err := newSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	ctx := cmd.Context()
	records := src.PlayerGameLog
	id := cfg.PlayerID(args[0])
	if gamelogTeam {
		records = src.TeamGameLog
		id = cfg.TeamID(args[0])
	}

	games := records(ctx, id, cfg.Season)
	if len(games) == 0 {
		fmt.Fprintf(os.Stdout, "No games found for %s in %s.\n", args[0], cfg.Season)
		return nil
	}
	fmt.Fprintf(os.Stdout, "\n%s  |  %s  |  %d games\n\n", args[0], cfg.Season, len(games))
	report.PrintGameLog(os.Stdout, games)
	return nil
}
