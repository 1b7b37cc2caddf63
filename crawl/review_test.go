package crawl_test

import (
	"context"
	"testing"

	"github.com/fwojciec/seocrawl"
	"github.com/fwojciec/seocrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

func reviewURLs(pages []*seocrawl.ReviewPage) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.URL
	}
	return out
}

func TestReviewer_Review(t *testing.T) {
	t.Parallel()

	t.Run("shows pending snapshot while awaiting review", func(t *testing.T) {
		t.Parallel()

		s := newStores(t)
		require.NoError(t, s.crawls.SaveSiteCrawl(context.Background(), &seocrawl.SiteCrawl{
			UserID: "u1",
			Status: seocrawl.CrawlAwaitingReview,
			PendingPages: []*seocrawl.PendingPage{
				{URL: "https://x.com/c"},
				{URL: "https://x.com/b", CrawlOrder: intPtr(1), Kept: boolPtr(false)},
				{URL: "https://x.com/a", CrawlOrder: intPtr(0)},
				{URL: "https://x.com/d", CrawlOrder: intPtr(2), Kept: boolPtr(true)},
			},
			ExcludedURLs: []string{"https://x.com/d"},
			LastRun:      fixedNow,
		}))
		r := &crawl.Reviewer{Crawls: s.crawls, Pages: s.pages}

		review, err := r.Review(context.Background(), "u1")

		require.NoError(t, err)
		assert.True(t, review.RequiresReview)
		assert.Equal(t, seocrawl.CrawlAwaitingReview, review.Status)
		require.NotNil(t, review.LastRun)
		assert.Equal(t, fixedNow, *review.LastRun)
		assert.Equal(t, []string{"https://x.com/a", "https://x.com/b", "https://x.com/d", "https://x.com/c"}, reviewURLs(review.Pages))
		assert.True(t, review.Pages[0].Kept)
		assert.False(t, review.Pages[1].Kept, "operator unticked")
		assert.False(t, review.Pages[2].Kept, "excluded")
		assert.True(t, review.Pages[3].Kept)
	})

	t.Run("shows cached pages and approved URLs not yet fetched", func(t *testing.T) {
		t.Parallel()

		s := newStores(t)
		ctx := context.Background()
		require.NoError(t, s.crawls.SaveSiteCrawl(ctx, &seocrawl.SiteCrawl{
			UserID:       "u1",
			Status:       seocrawl.CrawlCompleted,
			ApprovedURLs: []string{"https://x.com/a", "https://x.com/manual", "https://x.com/new"},
			ExcludedURLs: []string{"https://x.com/b"},
		}))
		require.NoError(t, s.pages.CachePage(ctx, &seocrawl.CachedPage{
			UserID: "u1", PageURL: "https://x.com/a", Title: "A", Source: seocrawl.SourceSiteCrawl, CrawlOrder: intPtr(0),
		}))
		require.NoError(t, s.legacy.CachePage(ctx, &seocrawl.CachedPage{
			UserID: "u1", PageURL: "https://x.com/b", Source: seocrawl.SourceSiteCrawl, CrawlOrder: intPtr(1),
		}))
		require.NoError(t, s.pages.CachePage(ctx, &seocrawl.CachedPage{
			UserID: "u1", PageURL: "https://x.com/manual", Title: "Manual", Source: seocrawl.SourceManual,
		}))
		require.NoError(t, s.pages.CachePage(ctx, &seocrawl.CachedPage{
			UserID: "u2", PageURL: "https://x.com/other-user", Source: seocrawl.SourceSiteCrawl,
		}))
		r := &crawl.Reviewer{Crawls: s.crawls, Pages: s.pages}

		review, err := r.Review(ctx, "u1")

		require.NoError(t, err)
		assert.False(t, review.RequiresReview)
		assert.Nil(t, review.LastRun)
		assert.Equal(t, []string{"https://x.com/a", "https://x.com/b", "https://x.com/manual", "https://x.com/new"}, reviewURLs(review.Pages))
		assert.True(t, review.Pages[0].Kept)
		assert.False(t, review.Pages[1].Kept)
		assert.Equal(t, "Manual", review.Pages[2].Title)
		assert.True(t, review.Pages[2].Cached)
		assert.False(t, review.Pages[3].Cached)
		assert.True(t, review.Pages[3].Kept)
	})

	t.Run("returns ENOTFOUND without a crawl", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Reviewer{Crawls: newStores(t).crawls}

		_, err := r.Review(context.Background(), "u1")

		assert.Equal(t, seocrawl.ENOTFOUND, seocrawl.ErrorCode(err))
	})

	t.Run("requires user ID", func(t *testing.T) {
		t.Parallel()

		_, err := (&crawl.Reviewer{}).Review(context.Background(), "")

		assert.Equal(t, seocrawl.EINVALID, seocrawl.ErrorCode(err))
	})
}

func TestReviewer_SavePreferences(t *testing.T) {
	t.Parallel()

	t.Run("normalizes and stores decisions", func(t *testing.T) {
		t.Parallel()

		s := newStores(t)
		ctx := context.Background()
		require.NoError(t, s.crawls.SaveSiteCrawl(ctx, &seocrawl.SiteCrawl{UserID: "u1", Status: seocrawl.CrawlCompleted}))
		r := &crawl.Reviewer{Crawls: s.crawls, Pages: s.pages, Now: now}

		got, err := r.SavePreferences(ctx, "u1", seocrawl.Preferences{
			ApprovedURLs: []string{" https://x.com/a ", "https://x.com/b", "https://x.com/a", ""},
			ExcludedURLs: []string{"https://x.com/b", "   "},
			ManualURLs:   []string{"https://x.com/m", "https://x.com/m"},
		})

		require.NoError(t, err)
		want := seocrawl.Preferences{
			ApprovedURLs: []string{"https://x.com/a"},
			ExcludedURLs: []string{"https://x.com/b"},
			ManualURLs:   []string{"https://x.com/m"},
		}
		assert.Equal(t, want, got)

		record, err := s.crawls.FindSiteCrawl(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, want, record.Preferences())
		assert.Equal(t, fixedNow, record.LastReviewedAt)
		assert.Equal(t, seocrawl.CrawlCompleted, record.Status)
	})

	t.Run("never touches cached pages", func(t *testing.T) {
		t.Parallel()

		s := newStores(t)
		ctx := context.Background()
		require.NoError(t, s.crawls.SaveSiteCrawl(ctx, &seocrawl.SiteCrawl{UserID: "u1", Status: seocrawl.CrawlCompleted}))
		require.NoError(t, s.pages.CachePage(ctx, &seocrawl.CachedPage{UserID: "u1", PageURL: "https://x.com/b"}))
		r := &crawl.Reviewer{Crawls: s.crawls, Pages: s.pages}

		_, err := r.SavePreferences(ctx, "u1", seocrawl.Preferences{ExcludedURLs: []string{"https://x.com/b"}})
		require.NoError(t, err)

		_, err = s.pages.FindCachedPage(ctx, "u1", "https://x.com/b")
		assert.NoError(t, err)
	})

	t.Run("returns ENOTFOUND without a crawl", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Reviewer{Crawls: newStores(t).crawls}

		_, err := r.SavePreferences(context.Background(), "u1", seocrawl.Preferences{})

		assert.Equal(t, seocrawl.ENOTFOUND, seocrawl.ErrorCode(err))
	})
}
