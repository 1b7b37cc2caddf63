// Package sqlite provides SQLite-based storage implementations for seocrawl services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait 5 seconds before failing on lock contention.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema creates the database tables if they don't exist.
//
// Cached pages live in two layouts while the migration runs: the legacy
// flat page_cache table keyed by a hash of user and URL, and the per-user
// user_pages table keyed by (user_id, page_url).
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS site_crawls (
			user_id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			website_url TEXT NOT NULL DEFAULT '',
			max_pages INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			pending_pages TEXT NOT NULL DEFAULT '',
			pending_generated_at TEXT NOT NULL DEFAULT '',
			approved_urls TEXT NOT NULL DEFAULT '[]',
			excluded_urls TEXT NOT NULL DEFAULT '[]',
			manual_urls TEXT NOT NULL DEFAULT '[]',
			page_count INTEGER NOT NULL DEFAULT 0,
			error_count INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL DEFAULT '',
			completed_at TEXT NOT NULL DEFAULT '',
			last_run TEXT NOT NULL DEFAULT '',
			last_reviewed_at TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS page_cache (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			page_url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			meta_description TEXT NOT NULL DEFAULT '',
			text_content TEXT NOT NULL DEFAULT '',
			headings TEXT NOT NULL DEFAULT '[]',
			source TEXT NOT NULL DEFAULT '',
			is_nav_link INTEGER NOT NULL DEFAULT 0,
			crawl_order INTEGER,
			crawl_tags TEXT NOT NULL DEFAULT '[]',
			cached_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_page_cache_user_id ON page_cache(user_id);

		CREATE TABLE IF NOT EXISTS user_pages (
			user_id TEXT NOT NULL,
			page_url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			meta_description TEXT NOT NULL DEFAULT '',
			text_content TEXT NOT NULL DEFAULT '',
			headings TEXT NOT NULL DEFAULT '[]',
			source TEXT NOT NULL DEFAULT '',
			is_nav_link INTEGER NOT NULL DEFAULT 0,
			crawl_order INTEGER,
			crawl_tags TEXT NOT NULL DEFAULT '[]',
			cached_at TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			PRIMARY KEY (user_id, page_url)
		);

		CREATE TABLE IF NOT EXISTS onboarding (
			user_id TEXT PRIMARY KEY,
			site_crawl_status TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`

	_, err := db.db.Exec(schema)
	return err
}
