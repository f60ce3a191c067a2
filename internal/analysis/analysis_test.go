package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-nba-hotcold/internal/model"
)

// game builds a complete record with FGA = PTS and no free throws, so true
// shooting is 0.5 whenever PTS > 0.
func game(id string, pts, reb, ast float64, wl model.Outcome) model.GameRecord {
	return model.GameRecord{
		GameID:    id,
		GameDate:  "2025-01-15",
		Matchup:   "DEN vs. LAL",
		WL:        wl,
		PTS:       model.F(pts),
		REB:       model.F(reb),
		AST:       model.F(ast),
		STL:       model.F(0),
		BLK:       model.F(0),
		TOV:       model.F(0),
		PlusMinus: model.F(0),
		FGA:       model.F(pts),
		FTA:       model.F(0),
		FGPct:     model.F(0.5),
		FG3Pct:    model.F(0),
		FTPct:     model.F(0),
	}
}

// splitGames returns 3 low (impact ~4), 4 mid (~20) and 3 high (~45) games.
func splitGames() []model.GameRecord {
	W, L := model.OutcomeWin, model.OutcomeLoss
	return []model.GameRecord{
		game("low1", 3, 1, 0, W),
		game("low2", 2, 1, 0, L),
		game("low3", 4, 1, 0, L),
		game("mid1", 12, 4, 2, W),
		game("mid2", 11, 4, 2, W),
		game("mid3", 13, 4, 2, L),
		game("mid4", 12, 4, 2, L),
		game("high1", 28, 8, 5, W),
		game("high2", 27, 8, 5, W),
		game("high3", 29, 8, 5, W),
	}
}

func fit(t *testing.T, records []model.GameRecord, cfg Config) (*Model, *Result) {
	t.Helper()
	f, err := NewExtractor().Extract(records)
	require.NoError(t, err)
	m := NewModel(cfg)
	res, err := m.FitPredict(f)
	require.NoError(t, err)
	return m, res
}

func TestGameImpact(t *testing.T) {
	got := GameImpact(10, 5, 4, 1, 2, 3, -6)
	// 10 + 6 + 6 + 2 + 4 - 3 - 3
	assert.InDelta(t, 22.0, got, 1e-9)
}

func TestTrueShooting(t *testing.T) {
	tests := []struct {
		name          string
		pts, fga, fta float64
		want          float64
	}{
		{"normal", 30, 20, 10, 30 / (2 * (20 + 4.4))},
		{"no attempts", 0, 0, 0, 0},
		{"free throws only", 4, 0, 5, 4 / (2 * 2.2)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, TrueShooting(tc.pts, tc.fga, tc.fta), 1e-9)
		})
	}
}

func TestExtractPreservesOrderAndColumns(t *testing.T) {
	records := splitGames()
	e := NewExtractor()
	f, err := e.Extract(records)
	require.NoError(t, err)

	require.Equal(t, len(records), f.Len())
	for i, v := range f.Vectors {
		assert.Equal(t, records[i].GameID, v.GameID)
	}
	assert.Equal(t, FeatureColumns(), e.Columns())
	assert.Equal(t, FeatureColumns(), f.Columns)
	assert.NotContains(t, f.Columns, "GAME_ID")
	assert.Len(t, f.Matrix()[0], len(f.Columns))
	assert.Equal(t, "January", f.Vectors[0].Month)
}

func TestExtractMissingShootingPercentage(t *testing.T) {
	r := game("g1", 20, 5, 5, model.OutcomeWin)
	r.FGPct = nil
	r.FTPct = nil
	f, err := NewExtractor().Extract([]model.GameRecord{r})
	require.NoError(t, err)
	assert.Equal(t, 0.0, f.Vectors[0].FGPct)
	assert.Equal(t, 0.0, f.Vectors[0].FTPct)
	assert.InDelta(t, 0.5, f.Vectors[0].TrueShooting, 1e-9)
}

func TestExtractMissingRequiredField(t *testing.T) {
	records := splitGames()
	records[4].PTS = nil
	_, err := NewExtractor().Extract(records)

	var mf *MissingFieldError
	require.True(t, errors.As(err, &mf), "got %v", err)
	assert.Equal(t, "PTS", mf.Field)
	assert.Equal(t, 4, mf.Index)
}

func TestFitPredictHotAverageCold(t *testing.T) {
	records := splitGames()
	m, res := fit(t, records, DefaultConfig())

	require.Len(t, res.Assignments, len(records))
	want := []string{
		LabelCold, LabelCold, LabelCold,
		LabelAverage, LabelAverage, LabelAverage, LabelAverage,
		LabelHot, LabelHot, LabelHot,
	}
	for i, a := range res.Assignments {
		assert.Equal(t, records[i].GameID, a.GameID)
		assert.Equal(t, want[i], a.Label, "row %d", i)
		assert.Contains(t, res.Labels, a.Cluster)
		assert.Equal(t, res.Labels[a.Cluster], a.Label)
	}
	assert.Equal(t, []string{LabelCold, LabelAverage, LabelHot}, res.Order)
	assert.Equal(t, res.Order, m.Order())
	assert.NotEmpty(t, res.RunID)
	require.NotNil(t, res.Silhouette)
	assert.Greater(t, *res.Silhouette, 0.5)

	an, err := m.Analyze(res.Assignments)
	require.NoError(t, err)
	assert.Greater(t, an[LabelHot].AvgImpact, an[LabelAverage].AvgImpact)
	assert.Greater(t, an[LabelAverage].AvgImpact, an[LabelCold].AvgImpact)

	assert.InDelta(t, 1.0/3.0, an[LabelCold].WinRate, 1e-9)
	assert.InDelta(t, 0.5, an[LabelAverage].WinRate, 1e-9)
	assert.InDelta(t, 1.0, an[LabelHot].WinRate, 1e-9)

	var pct float64
	var count int
	for _, st := range an {
		pct += st.Percentage
		count += st.Count
	}
	assert.InDelta(t, 100.0, pct, 1e-9)
	assert.Equal(t, len(records), count)

	require.Len(t, an[LabelAverage].Samples, 3)
	assert.Equal(t, "mid1", an[LabelAverage].Samples[0].GameID)
	assert.Equal(t, "mid3", an[LabelAverage].Samples[2].GameID)
}

func TestFitPredictDeterministic(t *testing.T) {
	records := splitGames()
	_, a := fit(t, records, DefaultConfig())
	_, b := fit(t, records, DefaultConfig())

	require.Len(t, b.Assignments, len(a.Assignments))
	for i := range a.Assignments {
		assert.Equal(t, a.Assignments[i].Cluster, b.Assignments[i].Cluster)
		assert.Equal(t, a.Assignments[i].Label, b.Assignments[i].Label)
	}
	assert.InDelta(t, a.Inertia, b.Inertia, 1e-12)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestFitPredictBoundary(t *testing.T) {
	records := splitGames()

	t.Run("rows equal clusters", func(t *testing.T) {
		three := []model.GameRecord{records[0], records[3], records[7]}
		_, res := fit(t, three, DefaultConfig())
		require.Len(t, res.Assignments, 3)
		assert.Equal(t, LabelCold, res.Assignments[0].Label)
		assert.Equal(t, LabelAverage, res.Assignments[1].Label)
		assert.Equal(t, LabelHot, res.Assignments[2].Label)
		assert.Nil(t, res.Silhouette)
	})

	t.Run("one row short", func(t *testing.T) {
		f, err := NewExtractor().Extract(records[:2])
		require.NoError(t, err)
		_, err = NewModel(DefaultConfig()).FitPredict(f)

		var ide *InsufficientDataError
		require.True(t, errors.As(err, &ide), "got %v", err)
		assert.Equal(t, 2, ide.Rows)
		assert.Equal(t, 3, ide.Clusters)
	})
}

func TestFitPredictSingleFormedCluster(t *testing.T) {
	same := make([]model.GameRecord, 4)
	for i := range same {
		same[i] = game("same", 10, 3, 3, model.OutcomeWin)
	}
	m, res := fit(t, same, DefaultConfig())

	assert.Nil(t, res.Silhouette)
	assert.Equal(t, []string{LabelAverage}, res.Order)
	assert.Len(t, res.Labels, 1)
	for _, a := range res.Assignments {
		assert.Equal(t, LabelAverage, a.Label)
	}

	an, err := m.Analyze(res.Assignments)
	require.NoError(t, err)
	assert.Equal(t, 4, an[LabelAverage].Count)
	assert.InDelta(t, 100.0, an[LabelAverage].Percentage, 1e-9)
}

func TestFitPredictGenericLabels(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NClusters = 2
	m, res := fit(t, splitGames(), cfg)

	assert.Equal(t, []string{"Cluster 1", "Cluster 2"}, res.Order)
	an, err := m.Analyze(res.Assignments)
	require.NoError(t, err)
	assert.Greater(t, an["Cluster 2"].AvgImpact, an["Cluster 1"].AvgImpact)
	// the high group always lands in the top cluster
	assert.Equal(t, "Cluster 2", res.Assignments[9].Label)
	assert.Equal(t, "Cluster 1", res.Assignments[0].Label)
}

func TestLabelNames(t *testing.T) {
	assert.Equal(t, []string{LabelAverage}, labelNames(3, 1))
	assert.Equal(t, []string{LabelCold, LabelHot}, labelNames(3, 2))
	assert.Equal(t, []string{LabelCold, LabelAverage, LabelHot}, labelNames(3, 3))
	assert.Equal(t, []string{"Cluster 1", "Cluster 2", "Cluster 3", "Cluster 4"}, labelNames(4, 4))
	assert.Equal(t, []string{"Cluster 1"}, labelNames(5, 1))
}

func TestNotFitted(t *testing.T) {
	m := NewModel(DefaultConfig())
	_, err := m.Analyze(nil)
	assert.True(t, errors.Is(err, ErrNotFitted))
	_, err = m.Summarize(nil, "nobody")
	assert.True(t, errors.Is(err, ErrNotFitted))
	assert.False(t, m.Fitted())
}

func TestAnalyzeDoesNotMutateAndIsIdempotent(t *testing.T) {
	m, res := fit(t, splitGames(), DefaultConfig())
	before := append([]Assignment(nil), res.Assignments...)

	a1, err := m.Analyze(res.Assignments)
	require.NoError(t, err)
	a2, err := m.Analyze(res.Assignments)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, before, res.Assignments)

	s1, err := m.Summarize(res.Assignments, "Nikola Jokic")
	require.NoError(t, err)
	s2, err := m.Summarize(res.Assignments, "Nikola Jokic")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestAnalyzeZeroCountLabels(t *testing.T) {
	m, res := fit(t, splitGames(), DefaultConfig())
	var hotOnly []Assignment
	for _, a := range res.Assignments {
		if a.Label == LabelHot {
			hotOnly = append(hotOnly, a)
		}
	}
	an, err := m.Analyze(hotOnly)
	require.NoError(t, err)
	assert.Equal(t, 0, an[LabelCold].Count)
	assert.Equal(t, 0.0, an[LabelCold].WinRate)
	assert.Empty(t, an[LabelCold].Samples)
	assert.InDelta(t, 100.0, an[LabelHot].Percentage, 1e-9)
}

func TestSummarizeOrder(t *testing.T) {
	m, res := fit(t, splitGames(), DefaultConfig())
	s, err := m.Summarize(res.Assignments, "Nikola Jokic")
	require.NoError(t, err)

	assert.Contains(t, s, "Performance analysis for Nikola Jokic: 10 games")
	cold := strings.Index(s, "Cold:")
	avg := strings.Index(s, "Average:")
	hot := strings.Index(s, "Hot:")
	require.True(t, cold >= 0 && avg >= 0 && hot >= 0, s)
	assert.Less(t, cold, avg)
	assert.Less(t, avg, hot)
}

func TestFormatSummarySortedWithoutOrder(t *testing.T) {
	an := Analysis{
		"b": {Label: "b", Count: 1, Percentage: 50},
		"a": {Label: "a", Count: 1, Percentage: 50},
	}
	s := FormatSummary("x", an, nil)
	assert.Less(t, strings.Index(s, "a:"), strings.Index(s, "b:"))
}

func TestFormatSummaryPrintsLabelsOutsideOrder(t *testing.T) {
	an := Analysis{
		LabelCold: {Label: LabelCold, Count: 2, Percentage: 50},
		LabelHot:  {Label: LabelHot, Count: 1, Percentage: 25},
		"Extra":   {Label: "Extra", Count: 1, Percentage: 25},
	}
	s := FormatSummary("x", an, []string{LabelCold, LabelHot})

	assert.Contains(t, s, "x: 4 games")
	extra := strings.Index(s, "Extra:")
	require.GreaterOrEqual(t, extra, 0, s)
	assert.Less(t, strings.Index(s, "Hot:"), extra)
}

func TestFitPredictImputesMissingImpact(t *testing.T) {
	f, err := NewExtractor().Extract(splitGames())
	require.NoError(t, err)
	f.Vectors[1].Impact = math.NaN()

	m := NewModel(DefaultConfig())
	res, err := m.FitPredict(f)
	require.NoError(t, err)

	var sum float64
	for i, v := range f.Vectors {
		if i != 1 {
			sum += v.Impact
		}
	}
	assert.InDelta(t, sum/9, res.Assignments[1].Impact, 1e-9)
	assert.True(t, math.IsNaN(f.Vectors[1].Impact), "input must not be modified")

	for i, a := range res.Assignments {
		switch {
		case i == 0 || i == 2:
			assert.Equal(t, LabelCold, a.Label, a.GameID)
		case i >= 7:
			assert.Equal(t, LabelHot, a.Label, a.GameID)
		}
	}

	an, err := m.Analyze(res.Assignments)
	require.NoError(t, err)
	for _, l := range res.Order {
		assert.False(t, math.IsNaN(an[l].AvgImpact), l)
	}
	assert.LessOrEqual(t, an[LabelCold].AvgImpact, an[LabelAverage].AvgImpact)
	assert.LessOrEqual(t, an[LabelAverage].AvgImpact, an[LabelHot].AvgImpact)
}

func TestRunEmpty(t *testing.T) {
	rep, err := Run(nil, "Nobody", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Games)
	assert.Empty(t, rep.Assignments())
	assert.Nil(t, rep.Order())
	assert.Contains(t, rep.Summary, "0 games")
}

func TestRun(t *testing.T) {
	rep, err := Run(splitGames(), "Nikola Jokic", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 10, rep.Games)
	assert.Len(t, rep.Assignments(), 10)
	assert.Equal(t, 3, rep.Analysis[LabelHot].Count)
	assert.Contains(t, rep.Summary, "Hot:")
}

func TestRunPropagatesCoreErrors(t *testing.T) {
	records := splitGames()
	records[0].TOV = nil
	_, err := Run(records, "x", DefaultConfig())
	var mf *MissingFieldError
	assert.True(t, errors.As(err, &mf))

	_, err = Run(records[1:2], "x", DefaultConfig())
	var ide *InsufficientDataError
	assert.True(t, errors.As(err, &ide))
}

func TestImputeColumnMeans(t *testing.T) {
	nan := math.NaN()
	x := [][]float64{{1, nan}, {3, nan}, {nan, nan}}
	out := imputeColumnMeans(x)
	assert.Equal(t, 2.0, out[2][0])
	assert.Equal(t, 0.0, out[0][1])
	assert.True(t, math.IsNaN(x[2][0]), "input must not change")
}

func TestScalerZeroVariance(t *testing.T) {
	var s Scaler
	out := s.FitTransform([][]float64{{1, 5}, {3, 5}})
	assert.InDelta(t, -1.0, out[0][0], 1e-9)
	assert.InDelta(t, 1.0, out[1][0], 1e-9)
	assert.Equal(t, 0.0, out[0][1])
	assert.Equal(t, 1.0, s.Scale[1])
}

func TestTopByImpact(t *testing.T) {
	as := []Assignment{
		{GameID: "a", Label: LabelHot, Impact: 40},
		{GameID: "b", Label: LabelHot, Impact: 50},
		{GameID: "c", Label: LabelCold, Impact: 5},
		{GameID: "d", Label: LabelHot, Impact: 45},
	}
	top := TopByImpact(as, LabelHot, 2, true)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].GameID)
	assert.Equal(t, "d", top[1].GameID)

	low := TopByImpact(as, "", 1, false)
	require.Len(t, low, 1)
	assert.Equal(t, "c", low[0].GameID)
	assert.Equal(t, "a", as[0].GameID)
}

func TestMonthlyImpact(t *testing.T) {
	as := []Assignment{
		{Month: "January", Impact: 10, WL: model.OutcomeWin},
		{Month: "January", Impact: 20, WL: model.OutcomeLoss},
		{Month: "February", Impact: 30, WL: model.OutcomeWin},
		{Month: "", Impact: 99},
	}
	months := MonthlyImpact(as)
	require.Len(t, months, 2)
	assert.Equal(t, "February", months[0].Month)
	assert.Equal(t, "January", months[1].Month)
	assert.InDelta(t, 15.0, months[1].AvgImpact, 1e-9)
	assert.InDelta(t, 0.5, months[1].WinRate, 1e-9)
	assert.Equal(t, 2, months[1].Games)
}
