package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/seocrawl"
	"github.com/fwojciec/seocrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingService_SetSiteCrawlStatus(t *testing.T) {
	t.Parallel()

	t.Run("defaults to not started", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOnboardingService(setupTestDB(t))

		status, err := svc.SiteCrawlStatus(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, seocrawl.CrawlNotStarted, status)
	})

	t.Run("last write wins", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOnboardingService(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, svc.SetSiteCrawlStatus(ctx, "u1", seocrawl.CrawlInProgress))
		require.NoError(t, svc.SetSiteCrawlStatus(ctx, "u1", seocrawl.CrawlCompletedWithErrors))

		status, err := svc.SiteCrawlStatus(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, seocrawl.CrawlCompletedWithErrors, status)
	})

	t.Run("requires user ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOnboardingService(setupTestDB(t))

		err := svc.SetSiteCrawlStatus(context.Background(), "", seocrawl.CrawlCompleted)
		assert.Equal(t, seocrawl.EINVALID, seocrawl.ErrorCode(err))
	})
}
