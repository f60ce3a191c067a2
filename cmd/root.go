package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-nba-hotcold/internal/config"
	"github.com/pable/go-nba-hotcold/internal/logging"
	"github.com/pable/go-nba-hotcold/internal/metrics"
)

var (
	cfg *config.Config

	logLevel    string
	seasonFlag  string
	noCache     bool
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:   "hotcold",
	Short: "NBA hot/cold game classifier",
	Long: `Fetch NBA game logs and cluster each game into Cold, Average or Hot
performances ranked by a composite impact score.

Configuration is read from defaults, the YAML file named by $HOTCOLD_CONFIG,
a .env file, and HOTCOLD_* environment variables, in that order.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsFile == "" {
			return nil
		}
		if err := metrics.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&seasonFlag, "season", "", "season, e.g. 2024-25 (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(gamelogCmd)
	rootCmd.AddCommand(pbpCmd)
	rootCmd.AddCommand(boxscoreCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(shellCmd)
}

// setup loads the configuration and the logger once per invocation.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if seasonFlag != "" {
		c.Season = seasonFlag
	}
	if noCache {
		c.CacheEnabled = false
	}
	logging.Setup(c.LogLevel, nil)
	log.Debug().Str("season", c.Season).Bool("cache", c.CacheEnabled).Msg("config loaded")
	cfg = c
	return nil
}
