// Package nba provides a minimal client for the stats.nba.com endpoints the
// classifier needs.
package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pable/go-nba-hotcold/internal/metrics"
	"github.com/pable/go-nba-hotcold/internal/model"
)

// DefaultBaseURL is the root endpoint for the stats API.
const DefaultBaseURL = "https://stats.nba.com/stats"

// Endpoint names, used both in the URL path and as metric labels.
const (
	EndpointPlayerGameLog    = "playergamelog"
	EndpointTeamGameLog      = "teamgamelog"
	EndpointLeagueGameFinder = "leaguegamefinder"
	EndpointPlayByPlay       = "playbyplayv2"
	EndpointBoxScoreAdvanced = "boxscoreadvancedv2"
)

// The stats API drops requests that do not look like they came from a browser.
var defaultHeaders = map[string]string{
	"Accept":             "application/json, text/plain, */*",
	"Accept-Language":    "en-US,en;q=0.9",
	"Connection":         "keep-alive",
	"Origin":             "https://www.nba.com",
	"Referer":            "https://www.nba.com/",
	"User-Agent":         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	Status int
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.Path, e.Status)
}

// Request names one endpoint call.
type Request struct {
	Endpoint string
	Params   url.Values
}

// Key identifies the request for caching: the endpoint plus its parameters
// sorted by name.
func (r Request) Key() string {
	return r.Endpoint + "?" + r.Params.Encode()
}

// PlayerGameLogRequest asks for one player's season game log.
func PlayerGameLogRequest(playerID, season, seasonType string) Request {
	return Request{Endpoint: EndpointPlayerGameLog, Params: url.Values{
		"PlayerID":   {playerID},
		"Season":     {season},
		"SeasonType": {seasonType},
	}}
}

// TeamGameLogRequest asks for one team's season game log.
func TeamGameLogRequest(teamID, season, seasonType string) Request {
	return Request{Endpoint: EndpointTeamGameLog, Params: url.Values{
		"TeamID":     {teamID},
		"Season":     {season},
		"SeasonType": {seasonType},
	}}
}

// LeagueGameFinderRequest lists the season's games, optionally for one team.
func LeagueGameFinderRequest(teamID, season, seasonType string) Request {
	return Request{Endpoint: EndpointLeagueGameFinder, Params: url.Values{
		"LeagueID":             {"00"},
		"PlayerOrTeam":         {"T"},
		"SeasonTypeNullable":   {seasonType},
		"SeasonNullable":       {season},
		"TeamIDNullable":       {teamID},
		"DateFromNullable":     {""},
		"DateToNullable":       {""},
		"VsTeamIDNullable":     {""},
		"OutcomeNullable":      {""},
		"LocationNullable":     {""},
		"PlayerIDNullable":     {""},
		"GameIDNullable":       {""},
		"ConferenceNullable":   {""},
		"DivisionNullable":     {""},
		"VsConferenceNullable": {""},
		"VsDivisionNullable":   {""},
	}}
}

// PlayByPlayRequest asks for every event of one game.
func PlayByPlayRequest(gameID string) Request {
	return Request{Endpoint: EndpointPlayByPlay, Params: url.Values{
		"GameID":      {gameID},
		"StartPeriod": {"0"},
		"EndPeriod":   {"0"},
	}}
}

// BoxScoreAdvancedRequest asks for the advanced box score of one game.
func BoxScoreAdvancedRequest(gameID string) Request {
	return Request{Endpoint: EndpointBoxScoreAdvanced, Params: url.Values{
		"GameID":      {gameID},
		"StartPeriod": {"0"},
		"EndPeriod":   {"0"},
		"StartRange":  {"0"},
		"EndRange":    {"0"},
		"RangeType":   {"0"},
	}}
}

// Client is a minimal stats API client.
type Client struct {
	baseURL string
	http    *http.Client
	headers map[string]string
}

// NewClient returns a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		headers: defaultHeaders,
	}
}

// Fetch performs one GET and returns the raw body. Every call is recorded
// in the API metrics, failures included.
func (c *Client) Fetch(ctx context.Context, r Request) ([]byte, error) {
	path := "/" + r.Endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.URL.RawQuery = r.Params.Encode()

	log.Debug().Str("endpoint", r.Endpoint).Str("query", req.URL.RawQuery).Msg("stats request")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordAPICall(r.Endpoint, "error", time.Since(start))
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	metrics.RecordAPICall(r.Endpoint, strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Status: resp.StatusCode, Path: path}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}

// envelope covers both the "resultSets" array and the single "resultSet"
// object some endpoints return.
type envelope struct {
	ResultSets json.RawMessage `json:"resultSets"`
	ResultSet  json.RawMessage `json:"resultSet"`
}

// Decode parses a stats API payload into its result sets, in payload order.
func Decode(body []byte) ([]model.ResultSet, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	raw := env.ResultSets
	if len(raw) == 0 || string(raw) == "null" {
		raw = env.ResultSet
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("decode response: no result sets")
	}

	var sets []model.ResultSet
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &sets); err != nil {
			return nil, fmt.Errorf("decode result sets: %w", err)
		}
		return sets, nil
	}
	var one model.ResultSet
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("decode result set: %w", err)
	}
	return []model.ResultSet{one}, nil
}
