package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/seocrawl/mock"
	seoslog "github.com/fwojciec/seocrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("logs discovery with count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, origin string) ([]string, error) {
				return []string{"https://example.com/a", "https://example.com/b"}, nil
			},
		}

		svc := seoslog.NewLoggingSitemapService(inner, logger)
		urls, err := svc.DiscoverURLs(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		output := buf.String()
		assert.Contains(t, output, "sitemap discovery")
		assert.Contains(t, output, "origin=https://example.com")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "duration=")
		assert.Contains(t, output, "level=INFO")
	})

	t.Run("logs failures at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, origin string) ([]string, error) {
				return nil, errors.New("connection failed")
			},
		}

		svc := seoslog.NewLoggingSitemapService(inner, logger)
		_, err := svc.DiscoverURLs(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "count=0")
		assert.Contains(t, buf.String(), "err=\"connection failed\"")
	})
}
