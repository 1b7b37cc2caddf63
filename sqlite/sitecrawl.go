package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/seocrawl"
)

// Compile-time interface verification.
var _ seocrawl.SiteCrawlService = (*SiteCrawlService)(nil)

// SiteCrawlService implements seocrawl.SiteCrawlService using SQLite.
type SiteCrawlService struct {
	db *DB
}

// NewSiteCrawlService creates a new SiteCrawlService.
func NewSiteCrawlService(db *DB) *SiteCrawlService {
	return &SiteCrawlService{db: db}
}

// FindSiteCrawl retrieves the crawl record for a user.
func (s *SiteCrawlService) FindSiteCrawl(ctx context.Context, userID string) (*seocrawl.SiteCrawl, error) {
	var (
		c                                                   seocrawl.SiteCrawl
		status, pending, approved, excluded, manual         string
		pendingAt, startedAt, completedAt, lastRun, lastRev string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, run_id, status, website_url, max_pages, error_message,
			pending_pages, pending_generated_at, approved_urls, excluded_urls, manual_urls,
			page_count, error_count, started_at, completed_at, last_run, last_reviewed_at
		FROM site_crawls
		WHERE user_id = ?
	`, userID).Scan(&c.UserID, &c.RunID, &status, &c.WebsiteURL, &c.MaxPages, &c.ErrorMessage,
		&pending, &pendingAt, &approved, &excluded, &manual,
		&c.PageCount, &c.ErrorCount, &startedAt, &completedAt, &lastRun, &lastRev)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, seocrawl.Errorf(seocrawl.ENOTFOUND, "site crawl not found")
	}
	if err != nil {
		return nil, err
	}

	if c.Status, err = seocrawl.ParseCrawlStatus(status); err != nil {
		return nil, err
	}
	if err := decodeJSON(pending, "pending_pages", &c.PendingPages); err != nil {
		return nil, err
	}
	if err := decodeJSON(approved, "approved_urls", &c.ApprovedURLs); err != nil {
		return nil, err
	}
	if err := decodeJSON(excluded, "excluded_urls", &c.ExcludedURLs); err != nil {
		return nil, err
	}
	if err := decodeJSON(manual, "manual_urls", &c.ManualURLs); err != nil {
		return nil, err
	}

	for _, f := range []struct {
		dst   *time.Time
		value string
		name  string
	}{
		{&c.PendingGeneratedAt, pendingAt, "pending_generated_at"},
		{&c.StartedAt, startedAt, "started_at"},
		{&c.CompletedAt, completedAt, "completed_at"},
		{&c.LastRun, lastRun, "last_run"},
		{&c.LastReviewedAt, lastRev, "last_reviewed_at"},
	} {
		t, err := parseTime(f.value, f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = t
	}

	return &c, nil
}

// SaveSiteCrawl creates or overwrites the crawl record for crawl.UserID.
func (s *SiteCrawlService) SaveSiteCrawl(ctx context.Context, crawl *seocrawl.SiteCrawl) error {
	if err := crawl.Validate(); err != nil {
		return err
	}
	if crawl.Status == "" {
		crawl.Status = seocrawl.CrawlNotStarted
	}

	pending := ""
	if len(crawl.PendingPages) > 0 {
		var err error
		if pending, err = encodeJSON(crawl.PendingPages); err != nil {
			return err
		}
	}
	approved, err := encodeJSON(seocrawl.NormalizeURLSet(crawl.ApprovedURLs))
	if err != nil {
		return err
	}
	excluded, err := encodeJSON(seocrawl.NormalizeURLSet(crawl.ExcludedURLs))
	if err != nil {
		return err
	}
	manual, err := encodeJSON(seocrawl.NormalizeURLSet(crawl.ManualURLs))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO site_crawls (user_id, run_id, status, website_url, max_pages, error_message,
			pending_pages, pending_generated_at, approved_urls, excluded_urls, manual_urls,
			page_count, error_count, started_at, completed_at, last_run, last_reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, crawl.UserID, crawl.RunID, string(crawl.Status), crawl.WebsiteURL, crawl.MaxPages, crawl.ErrorMessage,
		pending, formatTime(crawl.PendingGeneratedAt), approved, excluded, manual,
		crawl.PageCount, crawl.ErrorCount, formatTime(crawl.StartedAt), formatTime(crawl.CompletedAt),
		formatTime(crawl.LastRun), formatTime(crawl.LastReviewedAt))

	return err
}

// UpdateSiteCrawl merges the non-nil fields of upd into the record.
func (s *SiteCrawlService) UpdateSiteCrawl(ctx context.Context, userID string, upd seocrawl.SiteCrawlUpdate) (*seocrawl.SiteCrawl, error) {
	c, err := s.FindSiteCrawl(ctx, userID)
	if err != nil {
		return nil, err
	}

	upd.Apply(c)

	if err := s.SaveSiteCrawl(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
