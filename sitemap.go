package seocrawl

import "context"

// SitemapService discovers URLs from a site's sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the page URLs listed by the sitemaps at the
	// site origin. Discovery is best-effort: a sitemap that cannot be
	// fetched or parsed contributes no URLs instead of failing the call.
	// Only context cancellation is returned as an error.
	DiscoverURLs(ctx context.Context, origin string) ([]string, error)
}
