package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-hotcold/internal/ingest"
	"github.com/pable/go-nba-hotcold/internal/report"
)

var boxscoreFull bool

var boxscoreCmd = &cobra.Command{
	Use:   "boxscore <game-id>",
	Short: "Show the advanced box score of a game",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoxscore,
}

func init() {
	boxscoreCmd.Flags().BoolVar(&boxscoreFull, "full", false, "also fetch and summarize play-by-play")
}

func runBoxscore(cmd *cobra.Command, args []string) error {
	src, closeSrc, err := newSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	gameID := args[0]
	var gd ingest.GameData
	if boxscoreFull {
		gd = src.GameData(cmd.Context(), gameID)
	} else {
		gd.PlayerAdvanced, gd.TeamAdvanced = src.BoxScoreAdvanced(cmd.Context(), gameID)
	}
	if gd.PlayerAdvanced.Empty() && gd.TeamAdvanced.Empty() {
		fmt.Fprintf(os.Stdout, "No box score found for game %s.\n", gameID)
		return nil
	}

	playerCols := []string{"PLAYER_NAME", "TEAM_ABBREVIATION", "MIN", "OFF_RATING", "DEF_RATING", "NET_RATING", "USG_PCT", "TS_PCT", "PIE"}
	teamCols := []string{"TEAM_ABBREVIATION", "OFF_RATING", "DEF_RATING", "NET_RATING", "PACE", "TS_PCT", "PIE"}

	fmt.Fprintf(os.Stdout, "\n--- Teams ---\n\n")
	report.PrintResultSet(os.Stdout, project(gd.TeamAdvanced, teamCols), 0)
	fmt.Fprintf(os.Stdout, "\n--- Players ---\n\n")
	report.PrintResultSet(os.Stdout, project(gd.PlayerAdvanced, playerCols), 0)
	if boxscoreFull {
		fmt.Fprintf(os.Stdout, "\nPlay-by-play events: %d\n", gd.PlayByPlay.Len())
	}
	return nil
}
