package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-hotcold/internal/report"
)

var pbpLimit int

var pbpCmd = &cobra.Command{
	Use:   "pbp <game-id>",
	Short: "Show play-by-play events of a game",
	Args:  cobra.ExactArgs(1),
	RunE:  runPBP,
}

func init() {
	pbpCmd.Flags().IntVar(&pbpLimit, "limit", 25, "max events to print (0 = all)")
}

func runPBP(cmd *cobra.Command, args []string) error {
	src, closeSrc, err := newSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	rs := src.PlayByPlay(cmd.Context(), args[0])
	if rs.Empty() {
		fmt.Fprintf(os.Stdout, "No play-by-play found for game %s.\n", args[0])
		return nil
	}
	cols := []string{"EVENTNUM", "PERIOD", "PCTIMESTRING", "HOMEDESCRIPTION", "VISITORDESCRIPTION", "SCORE"}
	report.PrintResultSet(os.Stdout, project(rs, cols), pbpLimit)
	return nil
}
