package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-nba-hotcold/internal/analysis"
	"github.com/pable/go-nba-hotcold/internal/ingest"
	"github.com/pable/go-nba-hotcold/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session",
	Long:  "Open a session that keeps one data source and cache open across commands. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	src, closeSrc, err := newSource()
	if err != nil {
		return err
	}
	defer closeSrc()
	ctx := cmd.Context()

	cGreeting.Printf("hotcold shell (%s)\n", cfg.Season)
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("hotcold")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "season":
			if len(args) == 0 {
				fmt.Println(cfg.Season)
				continue
			}
			cfg.Season = args[0]
		case "analyze":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: analyze <player>")
				continue
			}
			shellAnalyze(ctx, src, args[0])
		case "games":
			days := 7
			if len(args) > 0 {
				if d, err := strconv.Atoi(args[0]); err == nil {
					days = d
				}
			}
			shellGames(ctx, src, days)
		case "pbp":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: pbp <game-id>")
				continue
			}
			rs := src.PlayByPlay(ctx, args[0])
			if rs.Empty() {
				cMuted.Println("No play-by-play found.")
				continue
			}
			report.PrintResultSet(os.Stdout, rs, 25)
		case "players":
			printNames("PLAYER", cfg.Players)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"analyze <player>", "classify a player's games as Cold/Average/Hot"},
		{"games [days]", "league games of the last N days (default 7)"},
		{"pbp <game-id>", "first 25 play-by-play events of a game"},
		{"players", "configured player short names"},
		{"season [YYYY-YY]", "show or change the active season"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellAnalyze(ctx context.Context, src *ingest.Source, player string) {
	records := src.PlayerGameLog(ctx, cfg.PlayerID(player), cfg.Season)
	rep, err := analysis.Run(records, player, cfg.Clustering())
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if rep.Games == 0 {
		cMuted.Printf("No games found for %s in %s.\n", player, cfg.Season)
		return
	}
	report.PrintRunHeader(os.Stdout, rep)
	report.PrintClusterTable(os.Stdout, rep.Analysis, rep.Order())
	fmt.Fprintln(os.Stdout)
	cHeader.Fprintf(os.Stdout, "--- Hottest Games ---\n")
	report.PrintGameTable(os.Stdout, analysis.TopByImpact(rep.Assignments(), "", 3, true))
}

func shellGames(ctx context.Context, src *ingest.Source, days int) {
	rs := src.RecentGames(ctx, "", cfg.Season, days, time.Now())
	if rs.Empty() {
		cMuted.Printf("No games found in the last %d days.\n", days)
		return
	}
	cols := []string{"GAME_DATE", "GAME_ID", "MATCHUP", "WL", "PTS"}
	report.PrintResultSet(os.Stdout, project(rs, cols), 0)
}
