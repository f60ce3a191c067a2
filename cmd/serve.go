package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-hotcold/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve classifications and game data over HTTP",
	Long: `Start an HTTP server exposing:

  GET /healthz
  GET /players/:id/performance[?season=]
  GET /games/:id
  GET /games/:id/playbyplay
  GET /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.ListenAddr
	}

	src, closeSrc, err := newSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	srv := server.New(src, server.Options{
		Season:        cfg.Season,
		Clustering:    cfg.Clustering(),
		ResolvePlayer: cfg.PlayerID,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
