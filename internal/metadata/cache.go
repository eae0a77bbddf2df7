// Package metadata provides cached access to the TMDB catalog.
package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a SQLite-backed store for catalog records. Values go in and out
// as JSON; an entry past its TTL behaves as a miss and is removed on the
// next read that touches it.
type Cache struct {
	db *sql.DB
}

// NewCache creates a cache on top of an already-migrated database.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// Get loads the entry under key into out, reporting whether a live entry
// was found. Expired and undecodable rows are evicted rather than served.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	var payload string
	var expiresAt time.Time

	err := c.db.QueryRowContext(ctx,
		"SELECT payload, expires_at FROM metadata_cache WHERE cache_key = ?", key,
	).Scan(&payload, &expiresAt)
	if err != nil {
		return false
	}

	if time.Now().After(expiresAt) {
		c.evict(ctx, key)
		return false
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		c.evict(ctx, key)
		return false
	}
	return true
}

// Set marshals value and stores it under key for ttl, replacing any
// previous entry.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %q: %w", key, err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO metadata_cache (cache_key, payload, expires_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at`,
		key, string(payload), time.Now().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Prune removes all expired entries and reports how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx,
		"DELETE FROM metadata_cache WHERE expires_at < ?", time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}

// evict is best effort; a row that will not delete still reads as a miss.
func (c *Cache) evict(ctx context.Context, key string) {
	_, _ = c.db.ExecContext(ctx, "DELETE FROM metadata_cache WHERE cache_key = ?", key)
}
