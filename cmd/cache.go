package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cacheEndpoint string
	cacheForce    bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the response cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached responses",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached responses",
	Long:  "Delete cached responses, optionally only those of one endpoint. The next request refetches from the network.",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheClearCmd.Flags().StringVar(&cacheEndpoint, "endpoint", "", "only clear this endpoint (e.g. playergamelog)")
	cacheClearCmd.Flags().BoolVarP(&cacheForce, "force", "f", false, "skip confirmation prompt")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	db, err := openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.ListResponses()
	if err != nil {
		return fmt.Errorf("list responses: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "Cache is empty. Run 'hotcold analyze <player>' to fill it.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-20s  %8s  %s\n", "FETCHED", "ENDPOINT", "BYTES", "KEY")
	fmt.Fprintf(os.Stdout, "%-20s  %-20s  %8s  %s\n",
		"────────────────────", "────────────────────", "────────", "───")
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-20s  %-20s  %8d  %s\n",
			e.FetchedAt.Format("2006-01-02 15:04:05"), e.Endpoint, e.Size, e.Key)
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	target := "all cached responses"
	if cacheEndpoint != "" {
		target = fmt.Sprintf("cached %s responses", cacheEndpoint)
	}
	if !cacheForce {
		fmt.Fprintf(os.Stderr, "This will delete %s in: %s\n", target, cfg.ResolvedCachePath())
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	db, err := openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.ClearResponses(cacheEndpoint)
	if err != nil {
		return fmt.Errorf("clear responses: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted %d responses.\n", n)
	return nil
}
