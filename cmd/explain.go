package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-hotcold/internal/analysis"
	"github.com/pable/go-nba-hotcold/internal/explain"
)

var (
	explainModel  string
	explainAPIKey string
	explainName   string
)

var explainCmd = &cobra.Command{
	Use:   "explain <player> <question>",
	Short: "Ask an AI model about a player's hot and cold games (requires an Anthropic key)",
	Long: `Classify a player's season and send the aggregated result, with the best
and worst games, to an Anthropic model together with a question. The answer
is grounded only in that data.

Example:
  hotcold explain nikola_jokic "What separates his hot games from his cold ones?"`,
	Args: cobra.ExactArgs(2),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().StringVar(&explainModel, "model", "", "Anthropic model to use (overrides config)")
	explainCmd.Flags().StringVar(&explainAPIKey, "api-key", "", "Anthropic API key (overrides config)")
	explainCmd.Flags().StringVar(&explainName, "name", "", "display name (default: the argument)")
}

func runExplain(cmd *cobra.Command, args []string) error {
	apiKey := explainAPIKey
	if apiKey == "" {
		apiKey = cfg.AnthropicAPIKey
	}
	modelID := explainModel
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}
	ex, err := explain.New(apiKey, modelID)
	if errors.Is(err, explain.ErrNoAPIKey) {
		return fmt.Errorf("%w or use --api-key", err)
	}
	if err != nil {
		return err
	}

	subject := explainName
	if subject == "" {
		subject = args[0]
	}

	src, closeSrc, err := newSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	records := src.PlayerGameLog(cmd.Context(), cfg.PlayerID(args[0]), cfg.Season)
	rep, err := analysis.Run(records, subject, cfg.Clustering())
	if err != nil {
		return fmt.Errorf("classify games: %w", err)
	}
	if rep.Games == 0 {
		return fmt.Errorf("no games found for %s in %s", subject, cfg.Season)
	}

	contextJSON, err := explain.BuildContext(rep)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")
	err = ex.Explain(cmd.Context(), os.Stdout, contextJSON, args[1])
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")
	return err
}
