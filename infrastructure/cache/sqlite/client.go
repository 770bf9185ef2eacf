// ABOUTME: SQLite-based cache implementation for persistent caching
// ABOUTME: Stores listing payloads in a local file that survives restarts

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"etsy-viewer-api/core/interfaces"
)

const (
	tableName       = "listing_cache"
	cleanupInterval = 5 * time.Minute

	// neverExpires keeps ttl <= 0 entries valid for "expiry > now" lookups
	neverExpires = int64(math.MaxInt64)
)

// Client implements interfaces.Cache on top of SQLite
type Client struct {
	db       *sql.DB
	filePath string
	logger   Logger
	queries  cacheQueries

	stop     chan struct{}
	stopOnce sync.Once
}

var _ interfaces.Cache = (*Client)(nil)

// NewSQLiteCache opens (or creates) the cache database at filePath.
// logger may be nil.
func NewSQLiteCache(filePath string, logger Logger) (*Client, error) {
	if filePath == "" {
		filePath = "cache.db"
	}

	queries, err := buildCacheQueries(tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache queries: %w", err)
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	client := &Client{
		db:       db,
		filePath: filePath,
		logger:   logger,
		queries:  queries,
		stop:     make(chan struct{}),
	}

	if err := client.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	go client.cleanupRoutine()

	return client, nil
}

func (c *Client) initSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS ` + tableName + ` (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expiry INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_listing_cache_expiry ON ` + tableName + `(expiry);
	`)
	return err
}

// Get retrieves a value, returning interfaces.ErrCacheMiss when absent or expired
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key, c.logger); err != nil {
		return nil, err
	}

	var value []byte
	err := c.db.QueryRowContext(ctx, c.queries.get, key, time.Now().Unix()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

// Set stores a value; a ttl of zero or less never expires
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key, c.logger); err != nil {
		return err
	}
	if err := ValidateValue(value); err != nil {
		return err
	}

	expiry := neverExpires
	if ttl > 0 {
		expiry = time.Now().Add(ttl).Unix()
	}

	if _, err := c.db.ExecContext(ctx, c.queries.set, key, value, expiry); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

// Delete removes a value from the cache
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key, c.logger); err != nil {
		return err
	}

	if _, err := c.db.ExecContext(ctx, c.queries.del, key); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}

// Close stops the cleanup routine and closes the database
func (c *Client) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return c.db.Close()
}

func (c *Client) cleanupRoutine() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := c.removeExpired(context.Background()); err != nil && c.logger != nil {
				c.logger.Warn("Failed to clean expired cache entries", map[string]interface{}{
					"error": err.Error(),
					"path":  c.filePath,
				})
			}
		case <-c.stop:
			return
		}
	}
}

// removeExpired deletes expired rows and returns how many were removed
func (c *Client) removeExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, c.queries.cleanup, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
