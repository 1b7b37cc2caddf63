package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/seocrawl"
)

// DefaultRetryDelays returns the backoff delays for extraction retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// ExtractWithRetry calls the extractor for pageURL, retrying failed
// attempts after each of the given delays. The error of the final
// attempt is returned. Retries are logged at debug level when logger is
// not nil.
func ExtractWithRetry(
	ctx context.Context,
	extractor seocrawl.ContentExtractor,
	pageURL string,
	delays []time.Duration,
	logger *slog.Logger,
) (*seocrawl.ExtractedPage, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		page, err := extractor.ExtractPage(ctx, pageURL)
		if err == nil {
			return page, nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if logger != nil {
			logger.Debug("retrying extraction", "url", pageURL, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
