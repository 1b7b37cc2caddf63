package mock

import (
	"context"

	"github.com/fwojciec/seocrawl"
)

var _ seocrawl.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of seocrawl.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, origin string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, origin string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, origin)
}
