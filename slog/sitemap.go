package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/seocrawl"
)

// Ensure LoggingSitemapService implements seocrawl.SitemapService.
var _ seocrawl.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   seocrawl.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next seocrawl.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service. A failed discovery is
// logged at warn level since the crawl continues on homepage links alone.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, origin string) (urls []string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "sitemap discovery",
			"origin", origin,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, origin)
}
