package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CachedResponse describes one stored payload without its body.
type CachedResponse struct {
	Key       string
	Endpoint  string
	Size      int
	FetchedAt time.Time
}

// GetResponse returns the cached body for key. ok is false on a miss.
func (db *DB) GetResponse(key string) ([]byte, bool, error) {
	var body []byte
	err := db.conn.QueryRow("SELECT body FROM responses WHERE key = ?", key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get response: %w", err)
	}
	return body, true, nil
}

// PutResponse stores body under key. Uses INSERT OR REPLACE so a refetch
// overwrites the previous payload.
func (db *DB) PutResponse(key, endpoint string, body []byte) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO responses(key, endpoint, body, fetched_at)
		VALUES (?, ?, ?, ?)`,
		key, endpoint, body, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("put response: %w", err)
	}
	return nil
}

// ListResponses returns every cached entry, newest first.
func (db *DB) ListResponses() ([]CachedResponse, error) {
	rows, err := db.conn.Query(`
		SELECT key, endpoint, length(body), fetched_at
		FROM responses
		ORDER BY fetched_at DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []CachedResponse
	for rows.Next() {
		var r CachedResponse
		var fetched string
		if err := rows.Scan(&r.Key, &r.Endpoint, &r.Size, &fetched); err != nil {
			return nil, err
		}
		r.FetchedAt, _ = time.Parse(time.RFC3339, fetched)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClearResponses deletes every cached entry, or only those of endpoint when
// it is non-empty, and returns the number removed.
func (db *DB) ClearResponses(endpoint string) (int64, error) {
	var res sql.Result
	var err error
	if endpoint == "" {
		res, err = db.conn.Exec("DELETE FROM responses")
	} else {
		res, err = db.conn.Exec("DELETE FROM responses WHERE endpoint = ?", endpoint)
	}
	if err != nil {
		return 0, fmt.Errorf("clear responses: %w", err)
	}
	return res.RowsAffected()
}
