package mock

import (
	"context"

	"github.com/fwojciec/seocrawl"
)

var (
	_ seocrawl.SiteCrawlService  = (*SiteCrawlService)(nil)
	_ seocrawl.OnboardingService = (*OnboardingService)(nil)
)

// SiteCrawlService is a mock implementation of seocrawl.SiteCrawlService.
type SiteCrawlService struct {
	FindSiteCrawlFn   func(ctx context.Context, userID string) (*seocrawl.SiteCrawl, error)
	SaveSiteCrawlFn   func(ctx context.Context, crawl *seocrawl.SiteCrawl) error
	UpdateSiteCrawlFn func(ctx context.Context, userID string, upd seocrawl.SiteCrawlUpdate) (*seocrawl.SiteCrawl, error)
}

func (s *SiteCrawlService) FindSiteCrawl(ctx context.Context, userID string) (*seocrawl.SiteCrawl, error) {
	return s.FindSiteCrawlFn(ctx, userID)
}

func (s *SiteCrawlService) SaveSiteCrawl(ctx context.Context, crawl *seocrawl.SiteCrawl) error {
	return s.SaveSiteCrawlFn(ctx, crawl)
}

func (s *SiteCrawlService) UpdateSiteCrawl(ctx context.Context, userID string, upd seocrawl.SiteCrawlUpdate) (*seocrawl.SiteCrawl, error) {
	return s.UpdateSiteCrawlFn(ctx, userID, upd)
}

// OnboardingService is a mock implementation of seocrawl.OnboardingService.
type OnboardingService struct {
	SetSiteCrawlStatusFn func(ctx context.Context, userID string, status seocrawl.CrawlStatus) error
}

func (s *OnboardingService) SetSiteCrawlStatus(ctx context.Context, userID string, status seocrawl.CrawlStatus) error {
	return s.SetSiteCrawlStatusFn(ctx, userID, status)
}
