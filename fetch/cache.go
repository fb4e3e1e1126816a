package fetch

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/adrg/xdg"
	"github.com/morden35/spatula"
)

// DefaultCacheTTL is how long a cached response stays fresh.
const DefaultCacheTTL = time.Hour

// cacheFileName is the sqlite database file inside the cache directory.
const cacheFileName = "responses.db"

// Cache is a sqlite-backed store of GET responses, keyed by the request
// method, location, and body. A fresh hit is served without a network
// call and flagged FromCache on the Response.
//
// Design decision: We use a single sqlite file rather than one file per
// response because a scrape session touches many small pages, and one
// database keeps expiry and cleanup a single query.
type Cache struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// ttl bounds how long entries stay fresh. Stale entries are
	// deleted on lookup.
	ttl time.Duration
}

// DefaultCacheDir returns the per-user cache directory.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, "spatula")
}

// OpenCache opens or creates the response cache in dir. An empty dir
// means the default per-user cache directory. A non-positive ttl means
// DefaultCacheTTL.
func OpenCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		dir = DefaultCacheDir()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, cacheFileName)+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	c := &Cache{db: db, ttl: ttl}
	if err := c.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return c, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// createTables creates the cache schema if it does not exist.
func (c *Cache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		content_type TEXT,
		headers TEXT,
		body BLOB,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_responses_fetched_at ON responses(fetched_at);
	`
	_, err := c.db.ExecContext(context.Background(), schema)
	return err
}

// Get looks up a fresh cached response for req. The second return value
// reports whether a fresh entry was found; stale entries are deleted
// and reported as misses.
func (c *Cache) Get(ctx context.Context, req *spatula.URL) (*spatula.Response, bool, error) {
	key := cacheKey(req)

	var (
		resolvedURL string
		statusCode  int
		contentType sql.NullString
		headersJSON sql.NullString
		body        []byte
		fetchedAt   time.Time
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT url, status_code, content_type, headers, body, fetched_at
		 FROM responses WHERE key = ?`, key,
	).Scan(&resolvedURL, &statusCode, &contentType, &headersJSON, &body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if time.Since(fetchedAt) > c.ttl {
		_, err := c.db.ExecContext(ctx, `DELETE FROM responses WHERE key = ?`, key)
		return nil, false, err
	}

	header := make(http.Header)
	if headersJSON.Valid && headersJSON.String != "" {
		if err := json.Unmarshal([]byte(headersJSON.String), &header); err != nil {
			return nil, false, fmt.Errorf("decode cached headers: %w", err)
		}
	}

	return &spatula.Response{
		StatusCode:  statusCode,
		URL:         resolvedURL,
		Header:      header,
		ContentType: contentType.String,
		Body:        body,
	}, true, nil
}

// Put stores a response for req, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, req *spatula.URL, resp *spatula.Response) error {
	headersJSON, err := json.Marshal(resp.Header)
	if err != nil {
		return fmt.Errorf("encode headers: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses
		 (key, url, status_code, content_type, headers, body, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cacheKey(req), resp.URL, resp.StatusCode, resp.ContentType,
		string(headersJSON), resp.Body, time.Now().UTC(),
	)
	return err
}

// Purge removes every entry from the cache.
func (c *Cache) Purge(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM responses`)
	return err
}

// cacheKey derives the lookup key from the request method, location,
// and body.
func cacheKey(req *spatula.URL) string {
	h := sha256.New()
	h.Write([]byte(req.Method))
	h.Write([]byte{0})
	h.Write([]byte(req.URL))
	h.Write([]byte{0})
	h.Write(req.Body)
	return hex.EncodeToString(h.Sum(nil))
}
