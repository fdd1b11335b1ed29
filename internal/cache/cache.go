// Package cache persists output-content hashes between builds so unchanged
// pages are not rewritten. Stable file mtimes keep rsync-style deploys and
// serve-mode rebuilds cheap.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed map from output path to content hash.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the cache database. Use ":memory:" for an
// in-memory cache (tests, one-shot builds).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS outputs (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		written_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Hash returns the recorded hash for an output path, or the empty string
// when the path has never been written.
func (s *Store) Hash(ctx context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT hash FROM outputs WHERE path = ?", path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query output hash: %w", err)
	}
	return hash, nil
}

// Remember records the hash for an output path, replacing any prior entry.
func (s *Store) Remember(ctx context.Context, path, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO outputs (path, hash, written_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, written_at = excluded.written_at",
		path, hash, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record output hash: %w", err)
	}
	return nil
}

// Forget drops every recorded entry, forcing the next build to rewrite all
// outputs. Used when the output directory is cleaned.
func (s *Store) Forget(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM outputs"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// HashBytes computes the content hash used for cache entries.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
