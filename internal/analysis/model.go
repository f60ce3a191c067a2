package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pable/go-nba-hotcold/internal/model"
)

// Semantic labels used when exactly three clusters are requested.
const (
	LabelCold    = "Cold"
	LabelAverage = "Average"
	LabelHot     = "Hot"
)

// Config holds the clustering parameters.
type Config struct {
	NClusters   int
	RandomState int64
	NInit       int
	MaxIter     int
	SampleSize  int
}

// DefaultConfig returns the hot/average/cold defaults.
func DefaultConfig() Config {
	return Config{
		NClusters:   3,
		RandomState: 42,
		NInit:       10,
		MaxIter:     300,
		SampleSize:  3,
	}
}

// Assignment is one input game with its cluster and label attached.
type Assignment struct {
	GameID    string        `json:"game_id"`
	GameDate  string        `json:"game_date"`
	Matchup   string        `json:"matchup"`
	WL        model.Outcome `json:"wl"`
	Month     string        `json:"month,omitempty"`
	Cluster   int           `json:"cluster"`
	Label     string        `json:"performance_label"`
	PTS       float64       `json:"pts"`
	REB       float64       `json:"reb"`
	AST       float64       `json:"ast"`
	PlusMinus float64       `json:"plus_minus"`
	Impact    float64       `json:"game_impact"`
}

// Result is the output of one FitPredict call.
type Result struct {
	RunID       string
	Assignments []Assignment
	// Labels maps every formed cluster id to its label.
	Labels map[int]string
	// Order lists the labels by ascending mean impact.
	Order      []string
	Silhouette *float64
	Inertia    float64
}

// LabelStats aggregates the games that share one label.
type LabelStats struct {
	Label      string       `json:"label"`
	Count      int          `json:"count"`
	Percentage float64      `json:"percentage"`
	AvgPTS     float64      `json:"avg_pts"`
	AvgREB     float64      `json:"avg_reb"`
	AvgAST     float64      `json:"avg_ast"`
	AvgPM      float64      `json:"avg_plus_minus"`
	AvgImpact  float64      `json:"avg_impact"`
	WinRate    float64      `json:"win_rate"`
	Samples    []Assignment `json:"samples"`
}

// Analysis maps a label to its aggregate statistics.
type Analysis map[string]LabelStats

// Model is a single-use clustering model: construct one per dataset, call
// FitPredict once, then Analyze and Summarize as often as needed.
type Model struct {
	cfg     Config
	scaler Scaler
	labels map[int]string
	order  []string
	fitted bool
}

// NewModel returns an unfitted model. Zero-valued fields of cfg fall back to
// DefaultConfig.
func NewModel(cfg Config) *Model {
	def := DefaultConfig()
	if cfg.NClusters <= 0 {
		cfg.NClusters = def.NClusters
	}
	if cfg.NInit <= 0 {
		cfg.NInit = def.NInit
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = def.MaxIter
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = def.SampleSize
	}
	return &Model{cfg: cfg}
}

// Fitted reports whether FitPredict has completed.
func (m *Model) Fitted() bool { return m.fitted }

// Order returns the labels in ascending mean-impact order, or nil before fitting.
func (m *Model) Order() []string { return append([]string(nil), m.order...) }

// FitPredict imputes, standardizes and clusters f, then labels every cluster
// by its mean unscaled impact. The label map is rebuilt on every call.
func (m *Model) FitPredict(f *Features) (*Result, error) {
	n := f.Len()
	if n < m.cfg.NClusters {
		return nil, &InsufficientDataError{Rows: n, Clusters: m.cfg.NClusters}
	}

	x := imputeColumnMeans(f.Matrix())
	scaled := m.scaler.FitTransform(x)
	km := kmeans(scaled, m.cfg.NClusters, m.cfg.NInit, m.cfg.MaxIter, m.cfg.RandomState)

	labels, order := rankClusters(km.labels, x, m.cfg.NClusters)

	res := &Result{
		RunID:       uuid.New().String(),
		Assignments: make([]Assignment, n),
		Labels:      labels,
		Order:       order,
		Inertia:     km.inertia,
	}
	pts, reb, ast := columnIndex(ColPTS), columnIndex(ColREB), columnIndex(ColAST)
	pm, impact := columnIndex(ColPlusMinus), columnIndex(ColImpact)
	for i, v := range f.Vectors {
		// Stats are read from the imputed matrix.
		res.Assignments[i] = Assignment{
			GameID:    v.GameID,
			GameDate:  v.GameDate,
			Matchup:   v.Matchup,
			WL:        v.WL,
			Month:     v.Month,
			Cluster:   km.labels[i],
			Label:     labels[km.labels[i]],
			PTS:       x[i][pts],
			REB:       x[i][reb],
			AST:       x[i][ast],
			PlusMinus: x[i][pm],
			Impact:    x[i][impact],
		}
	}

	if s, ok := silhouette(scaled, km.labels); ok {
		res.Silhouette = &s
		log.Info().Str("run_id", res.RunID).Float64("silhouette", s).Msg("clustering quality")
	} else {
		log.Info().Str("run_id", res.RunID).Int("clusters", distinctClusters(km.labels)).
			Msg("silhouette skipped: degenerate clustering")
	}
	log.Debug().Str("run_id", res.RunID).Int("games", n).Int("iterations", km.iters).
		Float64("inertia", km.inertia).Strs("order", order).Interface("centers", km.centers).
		Msg("fit complete")

	m.labels = labels
	m.order = order
	m.fitted = true
	return res, nil
}

// rankClusters sorts the formed clusters by mean impact (ties by id) and names
// them. x is the imputed, unscaled feature matrix. Requested clusters that
// received no rows are not labeled.
func rankClusters(assign []int, x [][]float64, requested int) (map[int]string, []string) {
	impact := columnIndex(ColImpact)
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i, c := range assign {
		sums[c] += x[i][impact]
		counts[c]++
	}
	ids := make([]int, 0, len(counts))
	for c := range counts {
		ids = append(ids, c)
	}
	sort.Slice(ids, func(a, b int) bool {
		ma := sums[ids[a]] / float64(counts[ids[a]])
		mb := sums[ids[b]] / float64(counts[ids[b]])
		if ma != mb {
			return ma < mb
		}
		return ids[a] < ids[b]
	})

	names := labelNames(requested, len(ids))
	labels := make(map[int]string, len(ids))
	for rank, c := range ids {
		labels[c] = names[rank]
	}
	return labels, names
}

// labelNames returns the ordinal labels for formed clusters, lowest impact
// first.
func labelNames(requested, formed int) []string {
	if requested == 3 {
		switch formed {
		case 1:
			return []string{LabelAverage}
		case 2:
			return []string{LabelCold, LabelHot}
		case 3:
			return []string{LabelCold, LabelAverage, LabelHot}
		}
	}
	out := make([]string, formed)
	for i := range out {
		out[i] = fmt.Sprintf("Cluster %d", i+1)
	}
	return out
}

// Analyze aggregates assignments per label. Every fitted label is present,
// with zeros when no assignment carries it. The input is not modified.
func (m *Model) Analyze(assignments []Assignment) (Analysis, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	return aggregate(assignments, m.order, m.cfg.SampleSize), nil
}

func aggregate(assignments []Assignment, order []string, sampleSize int) Analysis {
	out := make(Analysis, len(order))
	for _, l := range order {
		out[l] = LabelStats{Label: l, Samples: []Assignment{}}
	}

	wins := make(map[string]int)
	for _, a := range assignments {
		st, ok := out[a.Label]
		if !ok {
			st = LabelStats{Label: a.Label, Samples: []Assignment{}}
		}
		st.Count++
		st.AvgPTS += a.PTS
		st.AvgREB += a.REB
		st.AvgAST += a.AST
		st.AvgPM += a.PlusMinus
		st.AvgImpact += a.Impact
		if a.WL == model.OutcomeWin {
			wins[a.Label]++
		}
		if len(st.Samples) < sampleSize {
			st.Samples = append(st.Samples, a)
		}
		out[a.Label] = st
	}

	total := len(assignments)
	for l, st := range out {
		if st.Count > 0 {
			c := float64(st.Count)
			st.AvgPTS /= c
			st.AvgREB /= c
			st.AvgAST /= c
			st.AvgPM /= c
			st.AvgImpact /= c
			st.WinRate = float64(wins[l]) / c
			st.Percentage = 100 * c / float64(total)
		}
		out[l] = st
	}
	return out
}

// Summarize formats Analyze output for subject. Labels follow the fitted
// impact order.
func (m *Model) Summarize(assignments []Assignment, subject string) (string, error) {
	a, err := m.Analyze(assignments)
	if err != nil {
		return "", err
	}
	return FormatSummary(subject, a, m.order), nil
}

// FormatSummary renders an analysis as a text block. Labels follow order;
// labels missing from it are printed afterwards in sorted order.
func FormatSummary(subject string, a Analysis, order []string) string {
	total := 0
	for _, st := range a {
		total += st.Count
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Performance analysis for %s: %d games\n", subject, total)
	if total == 0 {
		b.WriteString("  No games to classify.\n")
		return b.String()
	}

	for _, l := range summaryOrder(a, order) {
		st := a[l]
		fmt.Fprintf(&b, "  %-8s %3d games (%5.1f%%) | PTS %5.1f  REB %4.1f  AST %4.1f  +/- %+5.1f | impact %5.1f | win rate %5.1f%%\n",
			l+":", st.Count, st.Percentage, st.AvgPTS, st.AvgREB, st.AvgAST, st.AvgPM, st.AvgImpact, 100*st.WinRate)
		for _, s := range st.Samples {
			fmt.Fprintf(&b, "      %s  %-12s %s  %.0f/%.0f/%.0f  impact %.1f\n",
				s.GameDate, s.Matchup, s.WL, s.PTS, s.REB, s.AST, s.Impact)
		}
	}
	return b.String()
}

// summaryOrder lists the labels of a: those in order first, then the rest sorted.
func summaryOrder(a Analysis, order []string) []string {
	keys := make([]string, 0, len(a))
	seen := make(map[string]bool, len(order))
	for _, l := range order {
		if _, ok := a[l]; ok && !seen[l] {
			keys = append(keys, l)
			seen[l] = true
		}
	}
	var rest []string
	for l := range a {
		if !seen[l] {
			rest = append(rest, l)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
