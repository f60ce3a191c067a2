// Package ingest is the data-source boundary of the classifier. It paces
// calls to the stats API, serves repeated requests from the response cache
// and turns every failure into an empty result.
package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pable/go-nba-hotcold/internal/metrics"
	"github.com/pable/go-nba-hotcold/internal/model"
	"github.com/pable/go-nba-hotcold/internal/nba"
)

// Fetcher performs one raw API call. *nba.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, r nba.Request) ([]byte, error)
}

// Cache stores raw payloads by request key. *storage.DB satisfies it.
type Cache interface {
	GetResponse(key string) ([]byte, bool, error)
	PutResponse(key, endpoint string, body []byte) error
}

// Option configures a Source.
type Option func(*Source)

// WithCache serves repeated requests from c.
func WithCache(c Cache) Option {
	return func(s *Source) { s.cache = c }
}

// WithDelay sets the pause before every network call.
func WithDelay(d time.Duration) Option {
	return func(s *Source) { s.delay = d }
}

// WithSeasonType overrides the "Regular Season" default.
func WithSeasonType(t string) Option {
	return func(s *Source) { s.seasonType = t }
}

// Source fetches game logs and game detail sets.
type Source struct {
	fetcher    Fetcher
	cache      Cache
	delay      time.Duration
	seasonType string
}

// NewSource returns a Source over f with no cache and no delay unless
// configured.
func NewSource(f Fetcher, opts ...Option) *Source {
	s := &Source{fetcher: f, seasonType: "Regular Season"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GameData groups every set fetched for a single game.
type GameData struct {
	GameID         string          `json:"game_id"`
	PlayByPlay     model.ResultSet `json:"play_by_play"`
	PlayerAdvanced model.ResultSet `json:"player_advanced"`
	TeamAdvanced   model.ResultSet `json:"team_advanced"`
}

// wait sleeps for the configured delay or until ctx is done.
func (s *Source) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// fetch returns the decoded sets for r, from the cache when possible.
func (s *Source) fetch(ctx context.Context, r nba.Request) ([]model.ResultSet, error) {
	key := r.Key()
	if s.cache != nil {
		body, ok, err := s.cache.GetResponse(key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache lookup failed")
		}
		if ok {
			if sets, err := nba.Decode(body); err == nil {
				metrics.RecordCache(true)
				log.Debug().Str("key", key).Msg("cache hit")
				return sets, nil
			}
			log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		}
		metrics.RecordCache(false)
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	body, err := s.fetcher.Fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	sets, err := nba.Decode(body)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.PutResponse(key, r.Endpoint, body); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache store failed")
		}
	}
	return sets, nil
}

// first returns sets[i] or an empty set.
func first(sets []model.ResultSet, i int) model.ResultSet {
	if i < len(sets) {
		return sets[i]
	}
	return model.ResultSet{}
}

// PlayerGameLog returns the player's games for season in API order (newest
// first). Failures are logged and yield no records.
func (s *Source) PlayerGameLog(ctx context.Context, playerID, season string) []model.GameRecord {
	sets, err := s.fetch(ctx, nba.PlayerGameLogRequest(playerID, season, s.seasonType))
	if err != nil {
		log.Error().Err(err).Str("player_id", playerID).Msg("fetch player game log")
		return nil
	}
	records := model.GameRecordsFromResultSet(first(sets, 0))
	log.Info().Str("player_id", playerID).Int("games", len(records)).Msg("fetched player game log")
	return records
}

// TeamGameLog returns the team's games for season.
func (s *Source) TeamGameLog(ctx context.Context, teamID, season string) []model.GameRecord {
	sets, err := s.fetch(ctx, nba.TeamGameLogRequest(teamID, season, s.seasonType))
	if err != nil {
		log.Error().Err(err).Str("team_id", teamID).Msg("fetch team game log")
		return nil
	}
	records := model.GameRecordsFromResultSet(first(sets, 0))
	log.Info().Str("team_id", teamID).Int("games", len(records)).Msg("fetched team game log")
	return records
}

// RecentGames returns the season's games played on or after now-days,
// for teamID or the whole league when teamID is empty.
func (s *Source) RecentGames(ctx context.Context, teamID, season string, days int, now time.Time) model.ResultSet {
	sets, err := s.fetch(ctx, nba.LeagueGameFinderRequest(teamID, season, s.seasonType))
	if err != nil {
		log.Error().Err(err).Str("team_id", teamID).Msg("fetch recent games")
		return model.ResultSet{}
	}
	cutoff := now.AddDate(0, 0, -days)
	all := first(sets, 0)
	recent := all.Filter(func(row int) bool {
		d, ok := model.ParseGameDate(all.String(row, "GAME_DATE"))
		return ok && !d.Before(cutoff)
	})
	log.Info().Int("games", recent.Len()).Int("days", days).Msg("found recent games")
	return recent
}

// PlayByPlay returns the game's events.
func (s *Source) PlayByPlay(ctx context.Context, gameID string) model.ResultSet {
	sets, err := s.fetch(ctx, nba.PlayByPlayRequest(gameID))
	if err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("fetch play-by-play")
		return model.ResultSet{}
	}
	pbp := first(sets, 0)
	log.Info().Str("game_id", gameID).Int("events", pbp.Len()).Msg("fetched play-by-play")
	return pbp
}

// BoxScoreAdvanced returns the player and team advanced sets.
func (s *Source) BoxScoreAdvanced(ctx context.Context, gameID string) (players, teams model.ResultSet) {
	sets, err := s.fetch(ctx, nba.BoxScoreAdvancedRequest(gameID))
	if err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("fetch advanced box score")
		return model.ResultSet{}, model.ResultSet{}
	}
	log.Info().Str("game_id", gameID).Msg("fetched advanced box score")
	return first(sets, 0), first(sets, 1)
}

// GameData fetches play-by-play and the advanced box score of one game.
func (s *Source) GameData(ctx context.Context, gameID string) GameData {
	log.Info().Str("game_id", gameID).Msg("fetching complete game data")
	pbp := s.PlayByPlay(ctx, gameID)
	players, teams := s.BoxScoreAdvanced(ctx, gameID)
	return GameData{
		GameID:         gameID,
		PlayByPlay:     pbp,
		PlayerAdvanced: players,
		TeamAdvanced:   teams,
	}
}
