package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/seocrawl"
)

// Ensure LoggingContentExtractor implements seocrawl.ContentExtractor.
var _ seocrawl.ContentExtractor = (*LoggingContentExtractor)(nil)

// LoggingContentExtractor wraps a ContentExtractor with logging. Successful
// extractions log at debug level, failures at warn.
type LoggingContentExtractor struct {
	next   seocrawl.ContentExtractor
	logger *slog.Logger
}

// NewLoggingContentExtractor creates a new LoggingContentExtractor.
func NewLoggingContentExtractor(next seocrawl.ContentExtractor, logger *slog.Logger) *LoggingContentExtractor {
	return &LoggingContentExtractor{next: next, logger: logger}
}

// ExtractPage delegates to the wrapped extractor and logs the result.
func (e *LoggingContentExtractor) ExtractPage(ctx context.Context, pageURL string) (page *seocrawl.ExtractedPage, err error) {
	defer func(begin time.Time) {
		if err != nil {
			e.logger.Warn("extract page",
				"url", pageURL,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		e.logger.Debug("extract page",
			"url", pageURL,
			"title", page.Title,
			"chars", len(page.TextContent),
			"links", len(page.Links),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.ExtractPage(ctx, pageURL)
}
