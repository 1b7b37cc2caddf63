package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/seocrawl"
)

// Executor fetches ranked candidates through the content extractor and
// stores the results for a user.
type Executor struct {
	Extractor  seocrawl.ContentExtractor
	Pages      seocrawl.PageCache
	Crawls     seocrawl.SiteCrawlService
	Onboarding seocrawl.OnboardingService
	Logger     *slog.Logger

	// Concurrency bounds parallel extractor calls. See ClampConcurrency.
	Concurrency int
	RetryDelays []time.Duration

	// RequireReview holds fetched pages on the crawl record for operator
	// review instead of writing them to the page cache.
	RequireReview bool

	Now func() time.Time
}

// Execute fetches every candidate and records the terminal crawl status.
// A failing page is reported in the result and never stops the batch.
// The crawl order of each page is its index in candidates. An error is
// returned only when the context ends or the crawl record cannot be
// updated.
func (e *Executor) Execute(ctx context.Context, userID string, candidates []seocrawl.Candidate) (*seocrawl.CrawlResult, error) {
	logger := loggerOrDiscard(e.Logger)
	delays := e.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	pending := make([]*seocrawl.PendingPage, len(candidates))
	errs := runBounded(ctx, len(candidates), e.Concurrency, func(ctx context.Context, i int) error {
		c := candidates[i]
		page, err := ExtractWithRetry(ctx, e.Extractor, c.URL, delays, logger)
		if err != nil {
			return err
		}

		order := i
		if e.RequireReview {
			pending[i] = &seocrawl.PendingPage{
				URL:             c.URL,
				Title:           page.Title,
				MetaDescription: page.MetaDescription,
				TextContent:     page.TextContent,
				Headings:        page.Headings,
				IsNavLink:       c.IsNav,
				CrawlOrder:      &order,
			}
			return nil
		}

		return e.Pages.CachePage(ctx, &seocrawl.CachedPage{
			UserID:          userID,
			PageURL:         c.URL,
			Title:           page.Title,
			MetaDescription: page.MetaDescription,
			TextContent:     page.TextContent,
			Headings:        page.Headings,
			Source:          seocrawl.SourceSiteCrawl,
			IsNavLink:       c.IsNav,
			CrawlOrder:      &order,
		})
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &seocrawl.CrawlResult{
		Attempted: len(candidates),
		Errors:    []seocrawl.PageError{},
	}
	var kept []*seocrawl.PendingPage
	for i, err := range errs {
		if err != nil {
			logger.Warn("page crawl failed", "url", candidates[i].URL, "err", err)
			result.Errors = append(result.Errors, seocrawl.PageError{URL: candidates[i].URL, Message: err.Error()})
			continue
		}
		result.Processed++
		if pending[i] != nil {
			kept = append(kept, pending[i])
		}
	}

	now := nowOrDefault(e.Now)
	status := seocrawl.CompletionStatus(len(result.Errors))
	upd := seocrawl.SiteCrawlUpdate{
		Status:     &status,
		PageCount:  &result.Processed,
		ErrorCount: ptr(len(result.Errors)),
		LastRun:    &now,
	}
	if e.RequireReview {
		status = seocrawl.CrawlAwaitingReview
		if kept == nil {
			kept = []*seocrawl.PendingPage{}
		}
		upd.PendingPages = &kept
		upd.PendingGeneratedAt = &now
	} else {
		upd.CompletedAt = &now
	}

	if _, err := e.Crawls.UpdateSiteCrawl(ctx, userID, upd); err != nil {
		return nil, err
	}
	if err := e.Onboarding.SetSiteCrawlStatus(ctx, userID, status); err != nil {
		return nil, err
	}

	return result, nil
}

func nowOrDefault(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now().UTC()
}

func ptr[T any](v T) *T {
	return &v
}
