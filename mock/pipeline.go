package mock

import (
	"context"

	"github.com/fwojciec/seocrawl"
)

var (
	_ seocrawl.CrawlService  = (*CrawlService)(nil)
	_ seocrawl.ReviewService = (*ReviewService)(nil)
	_ seocrawl.CommitService = (*CommitService)(nil)
)

// CrawlService is a mock implementation of seocrawl.CrawlService.
type CrawlService struct {
	CrawlFn func(ctx context.Context, req seocrawl.CrawlRequest) (*seocrawl.CrawlResult, error)
}

func (s *CrawlService) Crawl(ctx context.Context, req seocrawl.CrawlRequest) (*seocrawl.CrawlResult, error) {
	return s.CrawlFn(ctx, req)
}

// ReviewService is a mock implementation of seocrawl.ReviewService.
type ReviewService struct {
	ReviewFn          func(ctx context.Context, userID string) (*seocrawl.Review, error)
	SavePreferencesFn func(ctx context.Context, userID string, prefs seocrawl.Preferences) (seocrawl.Preferences, error)
}

func (s *ReviewService) Review(ctx context.Context, userID string) (*seocrawl.Review, error) {
	return s.ReviewFn(ctx, userID)
}

func (s *ReviewService) SavePreferences(ctx context.Context, userID string, prefs seocrawl.Preferences) (seocrawl.Preferences, error) {
	return s.SavePreferencesFn(ctx, userID, prefs)
}

// CommitService is a mock implementation of seocrawl.CommitService.
type CommitService struct {
	CommitFn func(ctx context.Context, userID string, prefs seocrawl.Preferences) (*seocrawl.CommitResult, error)
}

func (s *CommitService) Commit(ctx context.Context, userID string, prefs seocrawl.Preferences) (*seocrawl.CommitResult, error) {
	return s.CommitFn(ctx, userID, prefs)
}
