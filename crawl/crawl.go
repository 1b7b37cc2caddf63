// Package crawl provides the site discovery and crawl pipeline.
// It ranks candidate URLs from sitemaps and homepage navigation, fetches
// them through a content extractor, and reconciles operator review
// decisions with the page cache.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/seocrawl"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a whole crawl run.
const DefaultTimeout = 5 * time.Minute

// Ensure Crawler implements seocrawl.CrawlService at compile time.
var _ seocrawl.CrawlService = (*Crawler)(nil)

// Crawler runs discovery followed by execution and keeps the crawl
// record's status current throughout.
type Crawler struct {
	Discoverer *Discoverer
	Executor   *Executor
	Crawls     seocrawl.SiteCrawlService
	Onboarding seocrawl.OnboardingService
	Logger     *slog.Logger

	// Timeout bounds the run. Zero means DefaultTimeout.
	Timeout time.Duration

	Now func() time.Time
}

// Crawl implements seocrawl.CrawlService.
func (c *Crawler) Crawl(ctx context.Context, req seocrawl.CrawlRequest) (*seocrawl.CrawlResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	websiteURL, err := NormalizeWebsiteURL(req.WebsiteURL)
	if err != nil {
		return nil, err
	}
	maxPages := req.MaxPages
	if maxPages == 0 {
		maxPages = seocrawl.DefaultMaxPages
	}

	if err := c.start(ctx, req.UserID, websiteURL, maxPages); err != nil {
		return nil, err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := c.run(runCtx, req.UserID, websiteURL, maxPages)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = seocrawl.Errorf(seocrawl.EINTERNAL, "crawl timed out")
		}
		c.fail(ctx, req.UserID, err)
		return nil, err
	}
	return result, nil
}

// start overwrites the crawl record with a fresh in-progress run. The
// operator's decisions from a previous run carry over.
func (c *Crawler) start(ctx context.Context, userID, websiteURL string, maxPages int) error {
	now := nowOrDefault(c.Now)
	record := &seocrawl.SiteCrawl{
		UserID:     userID,
		RunID:      uuid.NewString(),
		Status:     seocrawl.CrawlInProgress,
		WebsiteURL: websiteURL,
		MaxPages:   maxPages,
		StartedAt:  now,
	}

	prev, err := c.Crawls.FindSiteCrawl(ctx, userID)
	switch {
	case err == nil:
		record.ApprovedURLs = prev.ApprovedURLs
		record.ExcludedURLs = prev.ExcludedURLs
		record.ManualURLs = prev.ManualURLs
		record.LastReviewedAt = prev.LastReviewedAt
	case seocrawl.ErrorCode(err) != seocrawl.ENOTFOUND:
		return fmt.Errorf("loading site crawl: %w", err)
	}

	if err := c.Crawls.SaveSiteCrawl(ctx, record); err != nil {
		return fmt.Errorf("saving site crawl: %w", err)
	}
	return c.Onboarding.SetSiteCrawlStatus(ctx, userID, seocrawl.CrawlInProgress)
}

func (c *Crawler) run(ctx context.Context, userID, websiteURL string, maxPages int) (*seocrawl.CrawlResult, error) {
	candidates, err := c.Discoverer.Discover(ctx, websiteURL, maxPages)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	loggerOrDiscard(c.Logger).Info("discovered candidates", "user", userID, "url", websiteURL, "count", len(candidates))

	return c.Executor.Execute(ctx, userID, candidates)
}

// fail records err on the crawl record. The run's context may already be
// done, so the write uses a context detached from its cancellation.
func (c *Crawler) fail(ctx context.Context, userID string, cause error) {
	ctx = context.WithoutCancel(ctx)
	logger := loggerOrDiscard(c.Logger)

	now := nowOrDefault(c.Now)
	status := seocrawl.CrawlError
	msg := cause.Error()
	if _, err := c.Crawls.UpdateSiteCrawl(ctx, userID, seocrawl.SiteCrawlUpdate{
		Status:       &status,
		ErrorMessage: &msg,
		LastRun:      &now,
	}); err != nil {
		logger.Error("recording crawl failure", "user", userID, "err", err)
	}
	if err := c.Onboarding.SetSiteCrawlStatus(ctx, userID, status); err != nil {
		logger.Error("recording onboarding status", "user", userID, "err", err)
	}
}
