package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pable/go-nba-hotcold/internal/model"
)

func TestProject(t *testing.T) {
	rs := model.ResultSet{
		Name:    "LeagueGameFinderResults",
		Headers: []string{"GAME_ID", "GAME_DATE", "MATCHUP", "PTS"},
		Rows: [][]any{
			{"0022400001", "2025-01-02", "DEN vs. LAL", 120.0},
			{"0022400002", "2025-01-04"},
		},
	}

	got := project(rs, []string{"GAME_DATE", "MISSING", "PTS"})
	assert.Equal(t, "LeagueGameFinderResults", got.Name)
	assert.Equal(t, []string{"GAME_DATE", "PTS"}, got.Headers)
	assert.Equal(t, [][]any{
		{"2025-01-02", 120.0},
		{"2025-01-04", nil},
	}, got.Rows)
}

func TestProjectEmpty(t *testing.T) {
	got := project(model.ResultSet{}, []string{"GAME_ID"})
	assert.Empty(t, got.Headers)
	assert.True(t, got.Empty())
}
