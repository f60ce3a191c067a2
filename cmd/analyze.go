package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-hotcold/internal/analysis"
	"github.com/pable/go-nba-hotcold/internal/report"
)

var (
	analyzeName   string
	analyzeCSV    string
	analyzeGames  bool
	analyzeTop    int
	analyzeMonths bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <player>",
	Short: "Classify a player's season games as Cold, Average or Hot",
	Long: `Fetch a player's season game log and cluster the games into performance
tiers ranked by a composite impact score:

  impact = PTS + 1.2*REB + 1.5*AST + 2*STL + 2*BLK - TOV + 0.5*PLUS_MINUS

<player> is an NBA player id or a short name from the configured players map.

Example:
  hotcold analyze nikola_jokic --name "Nikola Jokic" --csv data/jokic.csv
  hotcold analyze 2544 --season 2023-24 --games`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "display name (default: the argument)")
	analyzeCmd.Flags().StringVar(&analyzeCSV, "csv", "", "write per-game assignments to this CSV file")
	analyzeCmd.Flags().BoolVar(&analyzeGames, "games", false, "print every game with its label")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 3, "number of hottest and coldest games to show (0 = none)")
	analyzeCmd.Flags().BoolVar(&analyzeMonths, "months", true, "show the per-month impact table")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	playerID := cfg.PlayerID(args[0])
	subject := analyzeName
	if subject == "" {
		subject = args[0]
	}

	src, closeSrc, err := newSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	records := src.PlayerGameLog(cmd.Context(), playerID, cfg.Season)
	rep, err := analysis.Run(records, subject, cfg.Clustering())
	if err != nil {
		return fmt.Errorf("classify games: %w", err)
	}
	if rep.Games == 0 {
		fmt.Fprintf(os.Stdout, "No games found for %s in %s.\n", subject, cfg.Season)
		fmt.Fprint(os.Stdout, rep.Summary)
		return nil
	}

	report.PrintRunHeader(os.Stdout, rep)
	report.PrintClusterTable(os.Stdout, rep.Analysis, rep.Order())

	all := rep.Assignments()
	if analyzeTop > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Hottest Games ---\n\n")
		report.PrintGameTable(os.Stdout, analysis.TopByImpact(all, "", analyzeTop, true))
		fmt.Fprintf(os.Stdout, "\n--- Coldest Games ---\n\n")
		report.PrintGameTable(os.Stdout, analysis.TopByImpact(all, "", analyzeTop, false))
	}
	if analyzeMonths {
		if months := analysis.MonthlyImpact(all); len(months) > 1 {
			fmt.Fprintf(os.Stdout, "\n--- By Month ---\n\n")
			report.PrintMonthlyTable(os.Stdout, months)
		}
	}
	if analyzeGames {
		fmt.Fprintf(os.Stdout, "\n--- All Games ---\n\n")
		report.PrintGameTable(os.Stdout, all)
	}

	fmt.Fprintf(os.Stdout, "\n%s", rep.Summary)

	if analyzeCSV != "" {
		if err := report.ExportCSV(analyzeCSV, all); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		fmt.Fprintf(os.Stdout, "\nWrote %d games to %s\n", len(all), analyzeCSV)
	}
	return nil
}
