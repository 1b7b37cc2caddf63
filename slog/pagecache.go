package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/seocrawl"
)

// Ensure LoggingPageCache implements seocrawl.PageCache.
var _ seocrawl.PageCache = (*LoggingPageCache)(nil)

// LoggingPageCache wraps a PageCache and logs writes and deletes. Reads
// are passed through without logging.
type LoggingPageCache struct {
	next   seocrawl.PageCache
	logger *slog.Logger
}

// NewLoggingPageCache creates a new LoggingPageCache.
func NewLoggingPageCache(next seocrawl.PageCache, logger *slog.Logger) *LoggingPageCache {
	return &LoggingPageCache{next: next, logger: logger}
}

func (c *LoggingPageCache) FindCachedPage(ctx context.Context, userID, pageURL string) (*seocrawl.CachedPage, error) {
	return c.next.FindCachedPage(ctx, userID, pageURL)
}

func (c *LoggingPageCache) FindCachedPages(ctx context.Context, userID string, filter seocrawl.PageFilter) ([]*seocrawl.CachedPage, error) {
	return c.next.FindCachedPages(ctx, userID, filter)
}

// CachePage delegates to the wrapped cache and logs the write.
func (c *LoggingPageCache) CachePage(ctx context.Context, page *seocrawl.CachedPage) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache page",
			"user", page.UserID,
			"url", page.PageURL,
			"source", page.Source,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.CachePage(ctx, page)
}

// DeleteCachedPage delegates to the wrapped cache and logs the delete.
func (c *LoggingPageCache) DeleteCachedPage(ctx context.Context, userID, pageURL string) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("delete cached page",
			"user", userID,
			"url", pageURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.DeleteCachedPage(ctx, userID, pageURL)
}
