package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-nba-hotcold/internal/analysis"
	"github.com/pable/go-nba-hotcold/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintRunHeader prints a one-line header for a classification run.
func PrintRunHeader(w io.Writer, rep *analysis.Report) {
	sil := "—"
	if rep.Result != nil && rep.Result.Silhouette != nil {
		sil = fmt.Sprintf("%.3f", *rep.Result.Silhouette)
	}
	run := "—"
	if rep.Result != nil {
		run = rep.Result.RunID[:8]
	}
	fmt.Fprintf(w, "\nPlayer: %s  |  Games: %d  |  Silhouette: %s  |  Run: %s\n\n",
		rep.Subject, rep.Games, sil, run)
}

// PrintClusterTable prints one row per label in order.
// Labels with fewer than 3 games are flagged with "*".
func PrintClusterTable(w io.Writer, an analysis.Analysis, order []string) {
	table := newTable(w)
	table.Header("LABEL", "GAMES", "%", "PTS", "REB", "AST", "+/-", "IMPACT", "WIN%")

	for _, l := range order {
		st, ok := an[l]
		if !ok {
			continue
		}
		table.Append(
			l+sampleFlag(st.Count),
			strconv.Itoa(st.Count),
			fmt.Sprintf("%.1f%%", st.Percentage),
			fmt.Sprintf("%.1f", st.AvgPTS),
			fmt.Sprintf("%.1f", st.AvgREB),
			fmt.Sprintf("%.1f", st.AvgAST),
			fmt.Sprintf("%+.1f", st.AvgPM),
			fmt.Sprintf("%.1f", st.AvgImpact),
			fmt.Sprintf("%.0f%%", 100*st.WinRate),
		)
	}
	table.Render()
}

func sampleFlag(n int) string {
	if n > 0 && n < 3 {
		return "*"
	}
	return ""
}

// PrintGameTable prints one row per game.
func PrintGameTable(w io.Writer, games []analysis.Assignment) {
	table := newTable(w)
	table.Header("DATE", "MATCHUP", "WL", "LABEL", "PTS", "REB", "AST", "+/-", "IMPACT")

	for _, g := range games {
		table.Append(
			g.GameDate,
			g.Matchup,
			g.WL.String(),
			g.Label,
			fmt.Sprintf("%.0f", g.PTS),
			fmt.Sprintf("%.0f", g.REB),
			fmt.Sprintf("%.0f", g.AST),
			fmt.Sprintf("%+.0f", g.PlusMinus),
			fmt.Sprintf("%.1f", g.Impact),
		)
	}
	table.Render()
}

// PrintGameLog prints raw game log records. Missing values show as "—".
func PrintGameLog(w io.Writer, records []model.GameRecord) {
	table := newTable(w)
	table.Header("DATE", "MATCHUP", "WL", "PTS", "REB", "AST", "STL", "BLK", "TOV", "FG%", "3P%", "FT%", "+/-")

	for _, r := range records {
		table.Append(
			r.GameDate,
			r.Matchup,
			r.WL.String(),
			optional(r.PTS, "%.0f"),
			optional(r.REB, "%.0f"),
			optional(r.AST, "%.0f"),
			optional(r.STL, "%.0f"),
			optional(r.BLK, "%.0f"),
			optional(r.TOV, "%.0f"),
			optional(r.FGPct, "%.3f"),
			optional(r.FG3Pct, "%.3f"),
			optional(r.FTPct, "%.3f"),
			optional(r.PlusMinus, "%+.0f"),
		)
	}
	table.Render()
}

func optional(v *float64, format string) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf(format, *v)
}

// PrintMonthlyTable prints the per-month impact rollup, best month first.
func PrintMonthlyTable(w io.Writer, months []analysis.MonthImpact) {
	table := newTable(w)
	table.Header("MONTH", "GAMES", "PTS", "IMPACT", "WIN%")

	for _, m := range months {
		table.Append(
			m.Month,
			strconv.Itoa(m.Games),
			fmt.Sprintf("%.1f", m.AvgPTS),
			fmt.Sprintf("%.1f", m.AvgImpact),
			fmt.Sprintf("%.0f%%", 100*m.WinRate),
		)
	}
	table.Render()
}

// PrintResultSet prints a raw API result set. limit <= 0 prints every row.
func PrintResultSet(w io.Writer, rs model.ResultSet, limit int) {
	table := newTable(w)
	header := make([]any, len(rs.Headers))
	for i, h := range rs.Headers {
		header[i] = h
	}
	table.Header(header...)

	for i, row := range rs.Rows {
		if limit > 0 && i >= limit {
			break
		}
		cells := make([]any, len(rs.Headers))
		for j := range rs.Headers {
			var v any
			if j < len(row) {
				v = row[j]
			}
			cells[j] = formatCell(v)
		}
		table.Append(cells...)
	}
	table.Render()

	if limit > 0 && rs.Len() > limit {
		fmt.Fprintf(w, "(%d of %d rows)\n", limit, rs.Len())
	}
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "—"
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', 3, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
