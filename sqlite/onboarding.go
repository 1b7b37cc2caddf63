package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/seocrawl"
)

var _ seocrawl.OnboardingService = (*OnboardingService)(nil)

// OnboardingService implements seocrawl.OnboardingService using SQLite.
type OnboardingService struct {
	db *DB
}

// NewOnboardingService creates a new OnboardingService.
func NewOnboardingService(db *DB) *OnboardingService {
	return &OnboardingService{db: db}
}

// SetSiteCrawlStatus records the crawl status on the user's onboarding flag.
func (s *OnboardingService) SetSiteCrawlStatus(ctx context.Context, userID string, status seocrawl.CrawlStatus) error {
	if userID == "" {
		return seocrawl.Errorf(seocrawl.EINVALID, "user ID required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO onboarding (user_id, site_crawl_status, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			site_crawl_status = excluded.site_crawl_status,
			updated_at = excluded.updated_at
	`, userID, string(status), formatTime(time.Now()))
	return err
}

// SiteCrawlStatus returns the user's onboarding crawl status.
// Users without a flag report CrawlNotStarted.
func (s *OnboardingService) SiteCrawlStatus(ctx context.Context, userID string) (seocrawl.CrawlStatus, error) {
	var status string
	err := s.db.QueryRowContext(ctx, "SELECT site_crawl_status FROM onboarding WHERE user_id = ?", userID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return seocrawl.CrawlNotStarted, nil
	}
	if err != nil {
		return "", err
	}
	return seocrawl.ParseCrawlStatus(status)
}
