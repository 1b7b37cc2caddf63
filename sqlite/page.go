package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/seocrawl"
)

// Compile-time interface verification.
var (
	_ seocrawl.PageCache = (*LegacyPageCache)(nil)
	_ seocrawl.PageCache = (*UserPageCache)(nil)
)

// LegacyPageCache implements seocrawl.PageCache on the flat page_cache
// table, where every user's pages share one table keyed by a content hash
// of user ID and URL.
type LegacyPageCache struct {
	pageTable
}

// NewLegacyPageCache creates a new LegacyPageCache.
func NewLegacyPageCache(db *DB) *LegacyPageCache {
	return &LegacyPageCache{pageTable{db: db, table: "page_cache", legacy: true}}
}

// UserPageCache implements seocrawl.PageCache on the per-user user_pages
// table keyed by (user_id, page_url).
type UserPageCache struct {
	pageTable
}

// NewUserPageCache creates a new UserPageCache.
func NewUserPageCache(db *DB) *UserPageCache {
	return &UserPageCache{pageTable{db: db, table: "user_pages"}}
}

// LegacyPageID returns the document ID of a page in the legacy layout.
func LegacyPageID(userID, pageURL string) string {
	h := xxhash.New()
	_, _ = h.WriteString(userID)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(pageURL)
	return hex.EncodeToString(h.Sum(nil))
}

// pageTable holds the queries shared by both page layouts. The layouts
// differ only in table name and in the legacy id column.
type pageTable struct {
	db     *DB
	table  string
	legacy bool
}

const pageColumns = `user_id, page_url, title, meta_description, text_content, headings, source,
	is_nav_link, crawl_order, crawl_tags, cached_at, expires_at`

// FindCachedPage retrieves one page.
func (t *pageTable) FindCachedPage(ctx context.Context, userID, pageURL string) (*seocrawl.CachedPage, error) {
	var row *sql.Row
	if t.legacy {
		row = t.db.QueryRowContext(ctx, "SELECT "+pageColumns+" FROM "+t.table+" WHERE id = ?",
			LegacyPageID(userID, pageURL))
	} else {
		row = t.db.QueryRowContext(ctx, "SELECT "+pageColumns+" FROM "+t.table+" WHERE user_id = ? AND page_url = ?",
			userID, pageURL)
	}

	page, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, seocrawl.Errorf(seocrawl.ENOTFOUND, "cached page not found")
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// FindCachedPages retrieves a user's pages matching the filter.
func (t *pageTable) FindCachedPages(ctx context.Context, userID string, filter seocrawl.PageFilter) ([]*seocrawl.CachedPage, error) {
	if filter.URLs != nil && len(filter.URLs) == 0 {
		return []*seocrawl.CachedPage{}, nil
	}

	var query strings.Builder
	args := []any{userID}

	query.WriteString("SELECT " + pageColumns + " FROM " + t.table + " WHERE user_id = ?")

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	if len(filter.URLs) > 0 {
		appendInClause(&query, &args, "page_url", filter.URLs)
	}

	query.WriteString(" ORDER BY crawl_order IS NULL, crawl_order ASC, page_url ASC")
	appendLimit(&query, &args, filter.Limit)

	rows, err := t.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []*seocrawl.CachedPage{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	return pages, rows.Err()
}

// CachePage creates or overwrites a page. Merging with a previous copy is
// the caller's concern; this writes the page exactly as given.
func (t *pageTable) CachePage(ctx context.Context, page *seocrawl.CachedPage) error {
	if err := page.Validate(); err != nil {
		return err
	}

	if page.CachedAt.IsZero() {
		page.CachedAt = time.Now().UTC()
	}
	if page.ExpiresAt.IsZero() {
		page.ExpiresAt = page.CachedAt.Add(seocrawl.PageTTL)
	}

	headings, err := encodeJSON(nonNil(page.Headings))
	if err != nil {
		return err
	}
	tags, err := encodeJSON(nonNil(page.CrawlTags))
	if err != nil {
		return err
	}

	var crawlOrder any
	if page.CrawlOrder != nil {
		crawlOrder = *page.CrawlOrder
	}

	args := []any{page.UserID, page.PageURL, page.Title, page.MetaDescription, page.TextContent,
		headings, page.Source, page.IsNavLink, crawlOrder, tags,
		formatTime(page.CachedAt), formatTime(page.ExpiresAt)}

	columns := pageColumns
	placeholders := "?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?"
	if t.legacy {
		columns = "id, " + columns
		placeholders = "?, " + placeholders
		args = append([]any{LegacyPageID(page.UserID, page.PageURL)}, args...)
	}

	_, err = t.db.ExecContext(ctx, fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		t.table, columns, placeholders), args...)
	return err
}

// DeleteCachedPage removes a page.
func (t *pageTable) DeleteCachedPage(ctx context.Context, userID, pageURL string) error {
	var (
		result sql.Result
		err    error
	)
	if t.legacy {
		result, err = t.db.ExecContext(ctx, "DELETE FROM "+t.table+" WHERE id = ?", LegacyPageID(userID, pageURL))
	} else {
		result, err = t.db.ExecContext(ctx, "DELETE FROM "+t.table+" WHERE user_id = ? AND page_url = ?", userID, pageURL)
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return seocrawl.Errorf(seocrawl.ENOTFOUND, "cached page not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*seocrawl.CachedPage, error) {
	var (
		page                seocrawl.CachedPage
		headings, tags      string
		crawlOrder          sql.NullInt64
		cachedAt, expiresAt string
	)

	if err := row.Scan(&page.UserID, &page.PageURL, &page.Title, &page.MetaDescription, &page.TextContent,
		&headings, &page.Source, &page.IsNavLink, &crawlOrder, &tags, &cachedAt, &expiresAt); err != nil {
		return nil, err
	}

	if err := decodeJSON(headings, "headings", &page.Headings); err != nil {
		return nil, err
	}
	if err := decodeJSON(tags, "crawl_tags", &page.CrawlTags); err != nil {
		return nil, err
	}
	if crawlOrder.Valid {
		n := int(crawlOrder.Int64)
		page.CrawlOrder = &n
	}

	var err error
	if page.CachedAt, err = parseTime(cachedAt, "cached_at"); err != nil {
		return nil, err
	}
	if page.ExpiresAt, err = parseTime(expiresAt, "expires_at"); err != nil {
		return nil, err
	}

	return &page, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
