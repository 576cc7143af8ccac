// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refcache stores BibTeX records fetched by DOI in a local SQLite
// database so repeated lookups skip the network.
package refcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "refs.db"

// Record is one cached lookup.
type Record struct {
	DOI       string
	BibTeX    string
	FetchedAt time.Time
}

// Cache is a DOI-keyed store of BibTeX records.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database in dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	c := &Cache{db: db}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// DefaultDir returns the cache directory under the user cache directory,
// falling back to the system temp directory.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "citefix")
	}
	return filepath.Join(os.TempDir(), "citefix")
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) createSchema() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS refs (
		doi TEXT PRIMARY KEY,
		bibtex TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	)`)
	return err
}

// Get returns the cached record for doi. The boolean is false on a miss.
// DOIs compare case-insensitively.
func (c *Cache) Get(ctx context.Context, doi string) (Record, bool, error) {
	var (
		rec       Record
		fetchedAt string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT doi, bibtex, fetched_at FROM refs WHERE doi = ?`, strings.ToLower(doi),
	).Scan(&rec.DOI, &rec.BibTeX, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("reading cache for %s: %w", doi, err)
	}
	rec.FetchedAt, _ = time.Parse(time.RFC3339Nano, fetchedAt)
	return rec, true, nil
}

// Put stores or replaces the record for doi.
func (c *Cache) Put(ctx context.Context, doi, bibtex string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO refs (doi, bibtex, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(doi) DO UPDATE SET bibtex = excluded.bibtex, fetched_at = excluded.fetched_at`,
		strings.ToLower(doi), bibtex, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing cache for %s: %w", doi, err)
	}
	return nil
}

// Len returns the number of cached records.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT count(*) FROM refs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache: %w", err)
	}
	return n, nil
}
