package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/fwojciec/seocrawl"
)

// Ensure Committer implements seocrawl.CommitService at compile time.
var _ seocrawl.CommitService = (*Committer)(nil)

// Committer reconciles the operator's decisions with the page cache.
type Committer struct {
	Extractor  seocrawl.ContentExtractor
	Pages      seocrawl.PageCache
	Crawls     seocrawl.SiteCrawlService
	Onboarding seocrawl.OnboardingService
	Logger     *slog.Logger

	// Concurrency bounds parallel extractor calls. See ClampConcurrency.
	Concurrency int
	RetryDelays []time.Duration

	Now func() time.Time
}

// commitEntry is a page to fetch with the discovery metadata it keeps.
type commitEntry struct {
	url        string
	source     string
	isNav      bool
	crawlOrder *int
	tags       []string
}

// Commit implements seocrawl.CommitService. Running it twice with the
// same decisions leaves the same page set: approved pages are re-fetched
// and overwritten, and excluded pages that are already gone are skipped.
func (c *Committer) Commit(ctx context.Context, userID string, prefs seocrawl.Preferences) (*seocrawl.CommitResult, error) {
	if userID == "" {
		return nil, seocrawl.Errorf(seocrawl.EINVALID, "user ID required")
	}
	prefs = prefs.Normalize()

	record, err := c.Crawls.FindSiteCrawl(ctx, userID)
	if seocrawl.ErrorCode(err) == seocrawl.ENOTFOUND {
		return nil, seocrawl.Errorf(seocrawl.EINVALID, "no site crawl found for user")
	} else if err != nil {
		return nil, err
	}

	if len(record.PendingPages) == 0 && len(prefs.ManualURLs) == 0 && len(prefs.ExcludedURLs) == 0 {
		return nil, seocrawl.Errorf(seocrawl.ENOCHANGES, "nothing to save")
	}

	entries, err := c.plan(ctx, userID, record.PendingPages, prefs)
	if err != nil {
		return nil, err
	}

	result := &seocrawl.CommitResult{
		Total:  len(entries),
		Errors: []seocrawl.PageError{},
	}

	logger := loggerOrDiscard(c.Logger)
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	errs := runBounded(ctx, len(entries), c.Concurrency, func(ctx context.Context, i int) error {
		e := entries[i]
		page, err := ExtractWithRetry(ctx, c.Extractor, e.url, delays, logger)
		if err != nil {
			return err
		}
		return c.Pages.CachePage(ctx, &seocrawl.CachedPage{
			UserID:          userID,
			PageURL:         e.url,
			Title:           page.Title,
			MetaDescription: page.MetaDescription,
			TextContent:     page.TextContent,
			Headings:        page.Headings,
			Source:          e.source,
			IsNavLink:       e.isNav,
			CrawlOrder:      e.crawlOrder,
			CrawlTags:       e.tags,
		})
	})
	for i, err := range errs {
		if err != nil {
			logger.Warn("page save failed", "url", entries[i].url, "err", err)
			result.Errors = append(result.Errors, seocrawl.PageError{URL: entries[i].url, Message: err.Error()})
			continue
		}
		result.Saved++
	}

	for _, u := range prefs.ExcludedURLs {
		err := c.Pages.DeleteCachedPage(ctx, userID, u)
		switch seocrawl.ErrorCode(err) {
		case "":
			result.Removed++
		case seocrawl.ENOTFOUND:
		default:
			logger.Warn("page removal failed", "url", u, "err", err)
			result.Errors = append(result.Errors, seocrawl.PageError{URL: u, Message: err.Error()})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := nowOrDefault(c.Now)
	status := seocrawl.CompletionStatus(len(result.Errors))
	if _, err := c.Crawls.UpdateSiteCrawl(ctx, userID, seocrawl.SiteCrawlUpdate{
		Status:       &status,
		ApprovedURLs: &prefs.ApprovedURLs,
		ExcludedURLs: &prefs.ExcludedURLs,
		ManualURLs:   &prefs.ManualURLs,
		ClearPending: true,
		CompletedAt:  &now,
		LastRun:      &now,
	}); err != nil {
		return nil, fmt.Errorf("updating site crawl: %w", err)
	}
	if err := c.Onboarding.SetSiteCrawlStatus(ctx, userID, status); err != nil {
		return nil, err
	}

	return result, nil
}

// plan lists the pages to fetch: approved pending pages, or the approved
// set rehydrated from the cache when no pending page applies, followed by
// manual additions not already covered.
func (c *Committer) plan(ctx context.Context, userID string, pending []*seocrawl.PendingPage, prefs seocrawl.Preferences) ([]commitEntry, error) {
	var entries []commitEntry
	covered := func(u string) bool {
		return slices.ContainsFunc(entries, func(e commitEntry) bool { return e.url == u })
	}

	for _, p := range pending {
		if !prefs.IsApproved(p.URL) || prefs.IsExcluded(p.URL) || covered(p.URL) {
			continue
		}
		entries = append(entries, commitEntry{
			url:        p.URL,
			source:     seocrawl.SourceSiteCrawl,
			isNav:      p.IsNavLink,
			crawlOrder: p.CrawlOrder,
			tags:       p.CrawlTags,
		})
	}

	if len(entries) == 0 && len(prefs.ApprovedURLs) > 0 {
		cached, err := c.Pages.FindCachedPages(ctx, userID, seocrawl.PageFilter{URLs: prefs.ApprovedURLs})
		if err != nil {
			return nil, fmt.Errorf("loading approved pages: %w", err)
		}
		for _, u := range prefs.ApprovedURLs {
			if prefs.IsExcluded(u) || covered(u) {
				continue
			}
			e := commitEntry{url: u, source: seocrawl.SourceSiteCrawl}
			if i := slices.IndexFunc(cached, func(p *seocrawl.CachedPage) bool { return p.PageURL == u }); i >= 0 {
				e.source = cached[i].Source
				e.isNav = cached[i].IsNavLink
				e.crawlOrder = cached[i].CrawlOrder
				e.tags = cached[i].CrawlTags
			}
			entries = append(entries, e)
		}
	}

	for _, u := range prefs.ManualURLs {
		if prefs.IsExcluded(u) || covered(u) {
			continue
		}
		entries = append(entries, commitEntry{
			url:    u,
			source: seocrawl.SourceManual,
			tags:   []string{seocrawl.TagManual, seocrawl.TagAdded},
		})
	}

	return entries, nil
}
