package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

// EnvPrefix prefixes every environment override, e.g. HOTCOLD_N_CLUSTERS.
const EnvPrefix = "HOTCOLD_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HOTCOLD_CONFIG is set
//  3. .env in the working directory (never overrides the real environment)
//  4. env (prefix HOTCOLD_)
func Load(_ context.Context) (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. A missing dotenv file is not
// an error.
func LoadFrom(dotenv string) (*Config, error) {
	base := New()

	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: read %s: %v", ErrLoadConfig, dotenv, err)
		}
	}

	k := koanf.New(".")

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// HOTCOLD_API_DELAY -> api_delay. Underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}
	// The path variable is not a config field.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.HasAnthropicKey() {
		log.Warn().Msg("anthropic_api_key not set; explain is disabled")
	}
	return &cfg, nil
}

// Validate checks the fields the pipeline depends on.
func (c *Config) Validate() error {
	switch {
	case c.NClusters < 1:
		return fmt.Errorf("%w: n_clusters must be >= 1, got %d", ErrInvalidConfig, c.NClusters)
	case c.NInit < 1:
		return fmt.Errorf("%w: n_init must be >= 1, got %d", ErrInvalidConfig, c.NInit)
	case c.MaxIter < 1:
		return fmt.Errorf("%w: max_iter must be >= 1, got %d", ErrInvalidConfig, c.MaxIter)
	case c.APIDelay < 0:
		return fmt.Errorf("%w: api_delay must be >= 0, got %s", ErrInvalidConfig, c.APIDelay)
	case c.APIBaseURL == "":
		return fmt.Errorf("%w: api_base_url must not be empty", ErrInvalidConfig)
	}
	return nil
}
