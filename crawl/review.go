package crawl

import (
	"context"
	"slices"
	"time"

	"github.com/fwojciec/seocrawl"
)

// Ensure Reviewer implements seocrawl.ReviewService at compile time.
var _ seocrawl.ReviewService = (*Reviewer)(nil)

// Reviewer serves the operator's review of a crawl. It reads pages and
// records decisions but never fetches or deletes pages.
type Reviewer struct {
	Crawls seocrawl.SiteCrawlService
	Pages  seocrawl.PageCache
	Now    func() time.Time
}

// Review implements seocrawl.ReviewService. A crawl awaiting review shows
// its pending snapshot; any other crawl shows the cached site-crawl pages
// plus approved URLs that have not been cached under that source.
func (r *Reviewer) Review(ctx context.Context, userID string) (*seocrawl.Review, error) {
	if userID == "" {
		return nil, seocrawl.Errorf(seocrawl.EINVALID, "user ID required")
	}

	record, err := r.Crawls.FindSiteCrawl(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs := record.Preferences().Normalize()

	review := &seocrawl.Review{
		Status:         record.Status,
		RequiresReview: record.Status == seocrawl.CrawlAwaitingReview,
		Preferences:    prefs,
	}
	if !record.LastRun.IsZero() {
		lastRun := record.LastRun
		review.LastRun = &lastRun
	}

	if review.RequiresReview {
		review.Pages = pendingReviewPages(record.PendingPages, prefs)
		return review, nil
	}

	review.Pages, err = r.cachedReviewPages(ctx, userID, prefs)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func pendingReviewPages(pending []*seocrawl.PendingPage, prefs seocrawl.Preferences) []*seocrawl.ReviewPage {
	pages := make([]*seocrawl.ReviewPage, 0, len(pending))
	for _, p := range pending {
		pages = append(pages, &seocrawl.ReviewPage{
			URL:             p.URL,
			Title:           p.Title,
			MetaDescription: p.MetaDescription,
			TextContent:     p.TextContent,
			Headings:        p.Headings,
			Source:          seocrawl.SourceSiteCrawl,
			IsNavLink:       p.IsNavLink,
			CrawlOrder:      p.CrawlOrder,
			CrawlTags:       p.CrawlTags,
			Kept:            (p.Kept == nil || *p.Kept) && !prefs.IsExcluded(p.URL),
			Cached:          false,
		})
	}
	seocrawl.SortByCrawlOrder(pages, func(p *seocrawl.ReviewPage) *int { return p.CrawlOrder })
	return pages
}

func (r *Reviewer) cachedReviewPages(ctx context.Context, userID string, prefs seocrawl.Preferences) ([]*seocrawl.ReviewPage, error) {
	source := seocrawl.SourceSiteCrawl
	cached, err := r.Pages.FindCachedPages(ctx, userID, seocrawl.PageFilter{Source: &source})
	if err != nil {
		return nil, err
	}

	pages := make([]*seocrawl.ReviewPage, 0, len(cached)+len(prefs.ApprovedURLs))
	for _, p := range cached {
		pages = append(pages, reviewPageFromCache(p, prefs))
	}

	var missing []string
	for _, u := range prefs.ApprovedURLs {
		if !slices.ContainsFunc(cached, func(p *seocrawl.CachedPage) bool { return p.PageURL == u }) {
			missing = append(missing, u)
		}
	}
	if len(missing) == 0 {
		return pages, nil
	}

	// Approved pages may be cached under another source.
	other, err := r.Pages.FindCachedPages(ctx, userID, seocrawl.PageFilter{URLs: missing})
	if err != nil {
		return nil, err
	}
	for _, u := range missing {
		i := slices.IndexFunc(other, func(p *seocrawl.CachedPage) bool { return p.PageURL == u })
		if i >= 0 {
			pages = append(pages, reviewPageFromCache(other[i], prefs))
			continue
		}
		pages = append(pages, &seocrawl.ReviewPage{
			URL:  u,
			Kept: !prefs.IsExcluded(u),
		})
	}
	return pages, nil
}

func reviewPageFromCache(p *seocrawl.CachedPage, prefs seocrawl.Preferences) *seocrawl.ReviewPage {
	return &seocrawl.ReviewPage{
		URL:             p.PageURL,
		Title:           p.Title,
		MetaDescription: p.MetaDescription,
		TextContent:     p.TextContent,
		Headings:        p.Headings,
		Source:          p.Source,
		IsNavLink:       p.IsNavLink,
		CrawlOrder:      p.CrawlOrder,
		CrawlTags:       p.CrawlTags,
		Kept:            !prefs.IsExcluded(p.PageURL),
		Cached:          true,
	}
}

// SavePreferences implements seocrawl.ReviewService.
func (r *Reviewer) SavePreferences(ctx context.Context, userID string, prefs seocrawl.Preferences) (seocrawl.Preferences, error) {
	if userID == "" {
		return seocrawl.Preferences{}, seocrawl.Errorf(seocrawl.EINVALID, "user ID required")
	}

	prefs = prefs.Normalize()
	now := nowOrDefault(r.Now)
	if _, err := r.Crawls.UpdateSiteCrawl(ctx, userID, seocrawl.SiteCrawlUpdate{
		ApprovedURLs:   &prefs.ApprovedURLs,
		ExcludedURLs:   &prefs.ExcludedURLs,
		ManualURLs:     &prefs.ManualURLs,
		LastReviewedAt: &now,
	}); err != nil {
		return seocrawl.Preferences{}, err
	}
	return prefs, nil
}
