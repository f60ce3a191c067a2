package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-nba-hotcold/internal/analysis"
	"github.com/pable/go-nba-hotcold/internal/ingest"
	"github.com/pable/go-nba-hotcold/internal/model"
)

type fakeSource struct {
	logs       map[string][]model.GameRecord
	pbp        model.ResultSet
	lastSeason string
}

func (f *fakeSource) PlayerGameLog(_ context.Context, playerID, season string) []model.GameRecord {
	f.lastSeason = season
	return f.logs[playerID]
}

func (f *fakeSource) PlayByPlay(_ context.Context, _ string) model.ResultSet {
	return f.pbp
}

func (f *fakeSource) GameData(_ context.Context, gameID string) ingest.GameData {
	return ingest.GameData{GameID: gameID, PlayByPlay: f.pbp}
}

func game(pts, reb, ast float64, wl model.Outcome) model.GameRecord {
	return model.GameRecord{
		GameID: "g", GameDate: "2025-01-15", Matchup: "DEN vs. LAL", WL: wl,
		PTS: model.F(pts), REB: model.F(reb), AST: model.F(ast),
		STL: model.F(0), BLK: model.F(0), TOV: model.F(0), PlusMinus: model.F(0),
		FGA: model.F(pts), FTA: model.F(0),
	}
}

func newTestServer(src *fakeSource) *Server {
	return New(src, Options{
		Season:     "2024-25",
		Clustering: analysis.DefaultConfig(),
		ResolvePlayer: func(s string) string {
			if s == "jokic" {
				return "203999"
			}
			return s
		},
	})
}

func do(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(&fakeSource{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPlayerPerformance(t *testing.T) {
	W, L := model.OutcomeWin, model.OutcomeLoss
	src := &fakeSource{logs: map[string][]model.GameRecord{"203999": {
		game(3, 1, 0, L), game(4, 1, 0, L), game(2, 1, 0, W),
		game(12, 4, 2, W), game(13, 4, 2, L), game(11, 4, 2, W),
		game(28, 8, 5, W), game(29, 8, 5, W), game(27, 8, 5, W),
	}}}
	rec := do(t, newTestServer(src), "/players/jokic/performance?season=2023-24&name=Nikola%20Jokic")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp performanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "203999", resp.PlayerID)
	assert.Equal(t, "Nikola Jokic", resp.Subject)
	assert.Equal(t, "2023-24", src.lastSeason)
	assert.Equal(t, 9, resp.Games)
	assert.Len(t, resp.Assignments, 9)
	assert.Equal(t, []string{analysis.LabelCold, analysis.LabelAverage, analysis.LabelHot}, resp.Order)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 3, resp.Analysis[analysis.LabelHot].Count)
	assert.Equal(t, 1.0, resp.Analysis[analysis.LabelHot].WinRate)
	assert.Equal(t, analysis.LabelHot, resp.Assignments[8].Label)
	assert.Contains(t, rec.Body.String(), `"wl":"W"`)
}

func TestPlayerPerformanceEmpty(t *testing.T) {
	src := &fakeSource{}
	rec := do(t, newTestServer(src), "/players/1/performance")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-25", src.lastSeason)

	var resp performanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Games)
	assert.Empty(t, resp.Assignments)
	assert.Nil(t, resp.Silhouette)
	assert.Contains(t, resp.Summary, "0 games")
}

func TestPlayerPerformanceCoreErrors(t *testing.T) {
	short := []model.GameRecord{game(10, 2, 2, model.OutcomeWin), game(20, 2, 2, model.OutcomeLoss)}
	missing := []model.GameRecord{game(10, 2, 2, model.OutcomeWin), game(20, 2, 2, model.OutcomeLoss), game(30, 2, 2, model.OutcomeLoss)}
	missing[1].REB = nil
	src := &fakeSource{logs: map[string][]model.GameRecord{"short": short, "missing": missing}}
	s := newTestServer(src)

	rec := do(t, s, "/players/short/performance")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "need at least 3 games")

	rec = do(t, s, "/players/missing/performance")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required field REB")
}

func TestPlayByPlay(t *testing.T) {
	src := &fakeSource{pbp: model.ResultSet{
		Name:    "PlayByPlay",
		Headers: []string{"EVENTNUM", "HOMEDESCRIPTION"},
		Rows:    [][]any{{1.0, "Jump Ball"}},
	}}
	rec := do(t, newTestServer(src), "/games/0022400001/playbyplay")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"PlayByPlay","headers":["EVENTNUM","HOMEDESCRIPTION"],"rowSet":[[1,"Jump Ball"]]}`, rec.Body.String())

	rec = do(t, newTestServer(&fakeSource{}), "/games/x/playbyplay")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"","headers":[],"rowSet":[]}`, rec.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	rec := do(t, newTestServer(&fakeSource{}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGameData(t *testing.T) {
	src := &fakeSource{pbp: model.ResultSet{Name: "PlayByPlay", Headers: []string{"EVENTNUM"}, Rows: [][]any{{1.0}}}}
	rec := do(t, newTestServer(src), "/games/0022400001")
	require.Equal(t, http.StatusOK, rec.Code)

	var gd struct {
		GameID         string          `json:"game_id"`
		PlayByPlay     model.ResultSet `json:"play_by_play"`
		PlayerAdvanced model.ResultSet `json:"player_advanced"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gd))
	assert.Equal(t, "0022400001", gd.GameID)
	assert.Equal(t, 1, gd.PlayByPlay.Len())
	assert.NotNil(t, gd.PlayerAdvanced.Headers)
}
