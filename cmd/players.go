package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the configured player and team short names",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func runPlayers(cmd *cobra.Command, args []string) error {
	printNames("PLAYER", cfg.Players)
	fmt.Fprintln(os.Stdout)
	printNames("TEAM", cfg.Teams)
	return nil
}

func printNames(title string, m map[string]string) {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)

	fmt.Fprintf(os.Stdout, "%-24s  %s\n", title, "ID")
	fmt.Fprintf(os.Stdout, "%-24s  %s\n", "────────────────────────", "──────────")
	for _, n := range names {
		fmt.Fprintf(os.Stdout, "%-24s  %s\n", n, m[n])
	}
}
