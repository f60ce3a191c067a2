package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-hotcold/internal/model"
	"github.com/pable/go-nba-hotcold/internal/report"
)

var (
	gamesTeam string
	gamesDays int
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List games played in the last N days",
	Args:  cobra.NoArgs,
	RunE:  runGames,
}

func init() {
	gamesCmd.Flags().StringVar(&gamesTeam, "team", "", "team id or configured short name (default: whole league)")
	gamesCmd.Flags().IntVar(&gamesDays, "days", 7, "look-back window in days")
}

func runGames(cmd *cobra.Command, args []string) error {
	src, closeSrc, err := newSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	teamID := ""
	if gamesTeam != "" {
		teamID = cfg.TeamID(gamesTeam)
	}
	rs := src.RecentGames(cmd.Context(), teamID, cfg.Season, gamesDays, time.Now())
	if rs.Empty() {
		fmt.Fprintf(os.Stdout, "No games found in the last %d days.\n", gamesDays)
		return nil
	}

	cols := []string{"GAME_DATE", "GAME_ID", "MATCHUP", "WL", "PTS", "PLUS_MINUS"}
	report.PrintResultSet(os.Stdout, project(rs, cols), 0)
	return nil
}

// project keeps only the named columns that exist in rs, in the given order.
func project(rs model.ResultSet, cols []string) model.ResultSet {
	var idx []int
	out := model.ResultSet{Name: rs.Name}
	for _, c := range cols {
		if i := rs.Index(c); i >= 0 {
			idx = append(idx, i)
			out.Headers = append(out.Headers, rs.Headers[i])
		}
	}
	for _, row := range rs.Rows {
		r := make([]any, len(idx))
		for j, i := range idx {
			if i < len(row) {
				r[j] = row[i]
			}
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}
