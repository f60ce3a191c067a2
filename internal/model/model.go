package model

import (
	"strings"
	"time"
)

// Outcome is the win/loss indicator of a single game.
type Outcome int

const (
	OutcomeUnknown Outcome = 0
	OutcomeWin     Outcome = 1
	OutcomeLoss    Outcome = 2
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "W"
	case OutcomeLoss:
		return "L"
	default:
		return "?"
	}
}

// MarshalText encodes the outcome as "W", "L" or "?".
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText accepts anything ParseOutcome does.
func (o *Outcome) UnmarshalText(b []byte) error {
	*o = ParseOutcome(string(b))
	return nil
}

// ParseOutcome maps the API's "W"/"L" column to an Outcome.
func ParseOutcome(s string) Outcome {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "W", "WIN":
		return OutcomeWin
	case "L", "LOSS":
		return OutcomeLoss
	default:
		return OutcomeUnknown
	}
}

// ---- Per-game box score rows ----

// GameRecord is one played game from a player or team game log.
// Numeric fields are nil when the source row had no value for them.
type GameRecord struct {
	GameID   string
	GameDate string
	Matchup  string
	WL       Outcome

	PTS       *float64
	REB       *float64
	AST       *float64
	STL       *float64
	BLK       *float64
	TOV       *float64
	PlusMinus *float64
	FGA       *float64
	FTA       *float64

	// Shooting percentages in [0,1]; nil is treated as 0 by the extractor.
	FGPct  *float64
	FG3Pct *float64
	FTPct  *float64
}

var gameDateLayouts = []string{
	"Jan 02, 2006",
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// ParseGameDate parses a GAME_DATE cell using the formats the stats
// endpoints emit. Month abbreviations may be upper case ("JAN 15, 2025").
func ParseGameDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 3 {
		s = s[:1] + strings.ToLower(s[1:3]) + s[3:]
	}
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date parses GameDate.
func (g GameRecord) Date() (time.Time, bool) {
	return ParseGameDate(g.GameDate)
}

// Month returns the full month name of the game, or "" if the date is unparseable.
func (g GameRecord) Month() string {
	t, ok := g.Date()
	if !ok {
		return ""
	}
	return t.Month().String()
}

// F is a convenience constructor for optional numeric fields.
func F(v float64) *float64 { return &v }

// ---- Tabular collaborator output ----

// ResultSet is one named table returned by a stats endpoint: a header row and
// positional data rows.
type ResultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rowSet"`
}

// Len returns the number of data rows.
func (rs ResultSet) Len() int { return len(rs.Rows) }

// Empty reports whether the set carries no rows.
func (rs ResultSet) Empty() bool { return len(rs.Rows) == 0 }

// Index returns the position of the named column (case-insensitive), or -1.
func (rs ResultSet) Index(col string) int {
	for i, h := range rs.Headers {
		if strings.EqualFold(h, col) {
			return i
		}
	}
	return -1
}

// Value returns the raw cell at (row, col), or nil when either is out of range.
func (rs ResultSet) Value(row int, col string) any {
	i := rs.Index(col)
	if i < 0 || row < 0 || row >= len(rs.Rows) || i >= len(rs.Rows[row]) {
		return nil
	}
	return rs.Rows[row][i]
}

// Float returns the cell as a number, or nil for missing/non-numeric cells.
func (rs ResultSet) Float(row int, col string) *float64 {
	switch v := rs.Value(row, col).(type) {
	case float64:
		return F(v)
	case float32:
		return F(float64(v))
	case int:
		return F(float64(v))
	case int64:
		return F(float64(v))
	default:
		return nil
	}
}

// String returns the cell as text. Numbers are not converted.
func (rs ResultSet) String(row int, col string) string {
	if s, ok := rs.Value(row, col).(string); ok {
		return s
	}
	return ""
}

// Filter returns a copy holding only the rows for which keep returns true.
func (rs ResultSet) Filter(keep func(row int) bool) ResultSet {
	out := ResultSet{Name: rs.Name, Headers: rs.Headers}
	for i := range rs.Rows {
		if keep(i) {
			out.Rows = append(out.Rows, rs.Rows[i])
		}
	}
	return out
}

// firstColumn returns the first alias present in the header row.
func (rs ResultSet) firstColumn(aliases ...string) string {
	for _, a := range aliases {
		if rs.Index(a) >= 0 {
			return a
		}
	}
	return ""
}

// GameRecordsFromResultSet converts a player or team game log into typed
// records, preserving row order. Columns absent from the set leave the
// corresponding fields nil.
func GameRecordsFromResultSet(rs ResultSet) []GameRecord {
	if rs.Empty() {
		return nil
	}
	idCol := rs.firstColumn("Game_ID", "GAME_ID")
	out := make([]GameRecord, 0, rs.Len())
	for i := range rs.Rows {
		out = append(out, GameRecord{
			GameID:    rs.String(i, idCol),
			GameDate:  rs.String(i, "GAME_DATE"),
			Matchup:   rs.String(i, "MATCHUP"),
			WL:        ParseOutcome(rs.String(i, "WL")),
			PTS:       rs.Float(i, "PTS"),
			REB:       rs.Float(i, "REB"),
			AST:       rs.Float(i, "AST"),
			STL:       rs.Float(i, "STL"),
			BLK:       rs.Float(i, "BLK"),
			TOV:       rs.Float(i, "TOV"),
			PlusMinus: rs.Float(i, "PLUS_MINUS"),
			FGA:       rs.Float(i, "FGA"),
			FTA:       rs.Float(i, "FTA"),
			FGPct:     rs.Float(i, "FG_PCT"),
			FG3Pct:    rs.Float(i, "FG3_PCT"),
			FTPct:     rs.Float(i, "FT_PCT"),
		})
	}
	return out
}
