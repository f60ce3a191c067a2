package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pable/go-nba-hotcold/internal/ingest"
	"github.com/pable/go-nba-hotcold/internal/nba"
	"github.com/pable/go-nba-hotcold/internal/storage"
)

// openCache opens the response cache, creating its directory.
func openCache() (*storage.DB, error) {
	path := cfg.ResolvedCachePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// newSource builds the data source from cfg. The returned func releases the
// cache and must always be called.
func newSource() (*ingest.Source, func(), error) {
	client := nba.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	opts := []ingest.Option{
		ingest.WithDelay(cfg.APIDelay),
		ingest.WithSeasonType(cfg.SeasonType),
	}
	if !cfg.CacheEnabled {
		return ingest.NewSource(client, opts...), func() {}, nil
	}

	db, err := openCache()
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, ingest.WithCache(db))
	return ingest.NewSource(client, opts...), func() { db.Close() }, nil
}
