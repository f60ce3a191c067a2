// Package server exposes the classifier over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/pable/go-nba-hotcold/internal/analysis"
	"github.com/pable/go-nba-hotcold/internal/ingest"
	"github.com/pable/go-nba-hotcold/internal/metrics"
	"github.com/pable/go-nba-hotcold/internal/model"
)

// GameSource is the data the handlers read. *ingest.Source satisfies it.
type GameSource interface {
	PlayerGameLog(ctx context.Context, playerID, season string) []model.GameRecord
	PlayByPlay(ctx context.Context, gameID string) model.ResultSet
	GameData(ctx context.Context, gameID string) ingest.GameData
}

// Options configures the handlers.
type Options struct {
	// Season is used when the request has no ?season=.
	Season     string
	Clustering analysis.Config
	// ResolvePlayer maps a path id (or configured short name) to an NBA id.
	ResolvePlayer func(string) string
}

// Server holds the handler dependencies.
type Server struct {
	src  GameSource
	opts Options
	echo *echo.Echo
}

// New builds the echo instance and registers every route.
func New(src GameSource, opts Options) *Server {
	if opts.ResolvePlayer == nil {
		opts.ResolvePlayer = func(s string) string { return s }
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().Str("uri", v.URI).Int("status", v.Status).Dur("latency", v.Latency).Msg("request")
			return nil
		},
	}))

	s := &Server{src: src, opts: opts, echo: e}
	e.GET("/healthz", s.health)
	e.GET("/players/:id/performance", s.playerPerformance)
	e.GET("/games/:id", s.gameData)
	e.GET("/games/:id/playbyplay", s.playByPlay)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- s.echo.Start(addr) }()
	log.Info().Str("addr", addr).Msg("listening")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdown)
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// performanceResponse is the JSON body of /players/:id/performance.
type performanceResponse struct {
	PlayerID    string                `json:"player_id"`
	Subject     string                `json:"subject"`
	Season      string                `json:"season"`
	Games       int                   `json:"games"`
	RunID       string                `json:"run_id,omitempty"`
	Silhouette  *float64              `json:"silhouette"`
	Order       []string              `json:"order"`
	Analysis    analysis.Analysis     `json:"analysis"`
	Assignments []analysis.Assignment `json:"assignments"`
	Summary     string                `json:"summary"`
}

func (s *Server) playerPerformance(c echo.Context) error {
	id := s.opts.ResolvePlayer(c.Param("id"))
	season := c.QueryParam("season")
	if season == "" {
		season = s.opts.Season
	}
	subject := c.QueryParam("name")
	if subject == "" {
		subject = "Player " + id
	}

	records := s.src.PlayerGameLog(c.Request().Context(), id, season)
	rep, err := analysis.Run(records, subject, s.opts.Clustering)
	if err != nil {
		var mf *analysis.MissingFieldError
		var ide *analysis.InsufficientDataError
		if errors.As(err, &mf) || errors.As(err, &ide) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		log.Error().Err(err).Str("player_id", id).Msg("classify games")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	resp := performanceResponse{
		PlayerID:    id,
		Subject:     subject,
		Season:      season,
		Games:       rep.Games,
		Order:       rep.Order(),
		Analysis:    rep.Analysis,
		Assignments: rep.Assignments(),
		Summary:     rep.Summary,
	}
	if resp.Order == nil {
		resp.Order = []string{}
	}
	if resp.Assignments == nil {
		resp.Assignments = []analysis.Assignment{}
	}
	if rep.Result != nil {
		resp.RunID = rep.Result.RunID
		resp.Silhouette = rep.Result.Silhouette
	}
	return c.JSON(http.StatusOK, resp)
}

// nonNil keeps empty sets rendering as [] rather than null.
func nonNil(rs model.ResultSet) model.ResultSet {
	if rs.Headers == nil {
		rs.Headers = []string{}
	}
	if rs.Rows == nil {
		rs.Rows = [][]any{}
	}
	return rs
}

func (s *Server) playByPlay(c echo.Context) error {
	return c.JSON(http.StatusOK, nonNil(s.src.PlayByPlay(c.Request().Context(), c.Param("id"))))
}

func (s *Server) gameData(c echo.Context) error {
	gd := s.src.GameData(c.Request().Context(), c.Param("id"))
	gd.PlayByPlay = nonNil(gd.PlayByPlay)
	gd.PlayerAdvanced = nonNil(gd.PlayerAdvanced)
	gd.TeamAdvanced = nonNil(gd.TeamAdvanced)
	return c.JSON(http.StatusOK, gd)
}
