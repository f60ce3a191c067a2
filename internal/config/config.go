// Package config defines the hotcold configuration and its loader.
//
// A single Config is built at process start and passed explicitly into the
// components that need it. Nothing else reads the environment.
package config

import (
	"path/filepath"
	"time"

	"github.com/pable/go-nba-hotcold/internal/analysis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Clustering.
	NClusters   int   `koanf:"n_clusters"`
	RandomState int64 `koanf:"random_state"`
	NInit       int   `koanf:"n_init"`
	MaxIter     int   `koanf:"max_iter"`
	SampleSize  int   `koanf:"sample_size"`

	// APIBaseURL is the stats endpoint root.
	APIBaseURL string `koanf:"api_base_url"`
	// APIDelay is slept before every network call to stay under the rate limit.
	APIDelay   time.Duration `koanf:"api_delay"`
	APITimeout time.Duration `koanf:"api_timeout"`

	Season     string `koanf:"season"`
	SeasonType string `koanf:"season_type"`

	DataDir      string `koanf:"data_dir"`
	CacheEnabled bool   `koanf:"cache_enabled"`
	// CachePath defaults to <data_dir>/cache.db when empty.
	CachePath string `koanf:"cache_path"`

	AnthropicAPIKey string `koanf:"anthropic_api_key"`
	AnthropicModel  string `koanf:"anthropic_model"`

	ListenAddr string `koanf:"listen_addr"`

	// Players and Teams map short names to NBA ids.
	Players map[string]string `koanf:"players"`
	Teams   map[string]string `koanf:"teams"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		NClusters:      3,
		RandomState:    42,
		NInit:          10,
		MaxIter:        300,
		SampleSize:     3,
		APIBaseURL:     "https://stats.nba.com/stats",
		APIDelay:       600 * time.Millisecond,
		APITimeout:     30 * time.Second,
		Season:         "2024-25",
		SeasonType:     "Regular Season",
		DataDir:        "data",
		CacheEnabled:   true,
		AnthropicModel: "claude-haiku-4-5-20251001",
		ListenAddr:     ":8000",
		Players: map[string]string{
			"nikola_jokic":          "203999",
			"lebron_james":          "2544",
			"stephen_curry":         "201939",
			"kevin_durant":          "201142",
			"giannis_antetokounmpo": "203507",
			"luka_doncic":           "1629029",
			"jayson_tatum":          "1628369",
			"joel_embiid":           "203954",
		},
		Teams: map[string]string{
			"lakers":   "1610612747",
			"celtics":  "1610612738",
			"warriors": "1610612744",
			"nuggets":  "1610612743",
			"heat":     "1610612748",
			"bucks":    "1610612749",
		},
	}
}

// Clustering returns the parameters for analysis.NewModel.
func (c *Config) Clustering() analysis.Config {
	return analysis.Config{
		NClusters:   c.NClusters,
		RandomState: c.RandomState,
		NInit:       c.NInit,
		MaxIter:     c.MaxIter,
		SampleSize:  c.SampleSize,
	}
}

// ResolvedCachePath returns CachePath, or the default under DataDir.
func (c *Config) ResolvedCachePath() string {
	if c.CachePath != "" {
		return c.CachePath
	}
	return filepath.Join(c.DataDir, "cache.db")
}

// HasAnthropicKey reports whether LLM features can be used.
func (c *Config) HasAnthropicKey() bool { return c.AnthropicAPIKey != "" }

// PlayerID resolves a configured short name to an id. Unknown names are
// returned unchanged so raw ids pass through.
func (c *Config) PlayerID(nameOrID string) string {
	if id, ok := c.Players[nameOrID]; ok {
		return id
	}
	return nameOrID
}

// TeamID resolves a configured team short name to an id.
func (c *Config) TeamID(nameOrID string) string {
	if id, ok := c.Teams[nameOrID]; ok {
		return id
	}
	return nameOrID
}
