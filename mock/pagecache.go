package mock

import (
	"context"

	"github.com/fwojciec/seocrawl"
)

var _ seocrawl.PageCache = (*PageCache)(nil)

// PageCache is a mock implementation of seocrawl.PageCache.
type PageCache struct {
	FindCachedPageFn   func(ctx context.Context, userID, pageURL string) (*seocrawl.CachedPage, error)
	FindCachedPagesFn  func(ctx context.Context, userID string, filter seocrawl.PageFilter) ([]*seocrawl.CachedPage, error)
	CachePageFn        func(ctx context.Context, page *seocrawl.CachedPage) error
	DeleteCachedPageFn func(ctx context.Context, userID, pageURL string) error
}

func (c *PageCache) FindCachedPage(ctx context.Context, userID, pageURL string) (*seocrawl.CachedPage, error) {
	return c.FindCachedPageFn(ctx, userID, pageURL)
}

func (c *PageCache) FindCachedPages(ctx context.Context, userID string, filter seocrawl.PageFilter) ([]*seocrawl.CachedPage, error) {
	return c.FindCachedPagesFn(ctx, userID, filter)
}

func (c *PageCache) CachePage(ctx context.Context, page *seocrawl.CachedPage) error {
	return c.CachePageFn(ctx, page)
}

func (c *PageCache) DeleteCachedPage(ctx context.Context, userID, pageURL string) error {
	return c.DeleteCachedPageFn(ctx, userID, pageURL)
}
