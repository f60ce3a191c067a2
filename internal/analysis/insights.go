package analysis

import (
	"sort"

	"github.com/pable/go-nba-hotcold/internal/model"
)

// TopByImpact returns up to n assignments carrying label (all labels when
// label is empty), sorted by impact. Ties keep input order.
func TopByImpact(assignments []Assignment, label string, n int, descending bool) []Assignment {
	var picked []Assignment
	for _, a := range assignments {
		if label == "" || a.Label == label {
			picked = append(picked, a)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool {
		if descending {
			return picked[i].Impact > picked[j].Impact
		}
		return picked[i].Impact < picked[j].Impact
	})
	if n >= 0 && len(picked) > n {
		picked = picked[:n]
	}
	return picked
}

// MonthImpact is the per-month rollup of game impact.
type MonthImpact struct {
	Month     string  `json:"month"`
	Games     int     `json:"games"`
	AvgImpact float64 `json:"avg_impact"`
	AvgPTS    float64 `json:"avg_pts"`
	WinRate   float64 `json:"win_rate"`
}

// MonthlyImpact groups assignments by calendar month, best month first.
// Games with an unparseable date are skipped.
func MonthlyImpact(assignments []Assignment) []MonthImpact {
	byMonth := make(map[string]*MonthImpact)
	wins := make(map[string]int)
	for _, a := range assignments {
		if a.Month == "" {
			continue
		}
		mi, ok := byMonth[a.Month]
		if !ok {
			mi = &MonthImpact{Month: a.Month}
			byMonth[a.Month] = mi
		}
		mi.Games++
		mi.AvgImpact += a.Impact
		mi.AvgPTS += a.PTS
		if a.WL == model.OutcomeWin {
			wins[a.Month]++
		}
	}

	out := make([]MonthImpact, 0, len(byMonth))
	for m, mi := range byMonth {
		g := float64(mi.Games)
		mi.AvgImpact /= g
		mi.AvgPTS /= g
		mi.WinRate = float64(wins[m]) / g
		out = append(out, *mi)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgImpact != out[j].AvgImpact {
			return out[i].AvgImpact > out[j].AvgImpact
		}
		return out[i].Month < out[j].Month
	})
	return out
}
