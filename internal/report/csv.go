package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pable/go-nba-hotcold/internal/analysis"
)

// CSVHeader is the column order of the exported assignment file.
var CSVHeader = []string{
	"GAME_ID", "GAME_DATE", "MATCHUP", "WL", "cluster", "performance_label",
	"PTS", "REB", "AST", "GAME_IMPACT", "PLUS_MINUS",
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes the assignments in input order.
func WriteCSV(w io.Writer, games []analysis.Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, g := range games {
		wl := ""
		if g.WL.String() != "?" {
			wl = g.WL.String()
		}
		rec := []string{
			g.GameID, g.GameDate, g.Matchup, wl,
			strconv.Itoa(g.Cluster), g.Label,
			num(g.PTS), num(g.REB), num(g.AST), num(g.Impact), num(g.PlusMinus),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the assignments to path, creating parent directories.
func ExportCSV(path string, games []analysis.Assignment) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, games); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
