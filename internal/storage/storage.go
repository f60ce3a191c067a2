// Package storage is the on-disk cache of raw stats API responses.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB is the response cache. It is safe for use by one process at a time.
type DB struct {
	conn *sql.DB
}

// Open opens the cache at path, creating the file and the responses table if
// needed. Pass ":memory:" for a throwaway cache. The pool holds a single
// connection, since a memory database exists only on the connection that
// created it.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", "file:"+path+"?_journal_mode=WAL&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
