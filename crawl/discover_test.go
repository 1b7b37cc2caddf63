package crawl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/seocrawl"
	"github.com/fwojciec/seocrawl/crawl"
	"github.com/fwojciec/seocrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscoverer(sitemapURLs []string, navLinks []string) *crawl.Discoverer {
	return &crawl.Discoverer{
		Sitemaps: &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
				return sitemapURLs, nil
			},
		},
		Extractor: &mock.ContentExtractor{
			ExtractPageFn: func(_ context.Context, _ string) (*seocrawl.ExtractedPage, error) {
				return &seocrawl.ExtractedPage{Links: navLinks}, nil
			},
		},
	}
}

func TestNormalizeWebsiteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"adds https scheme", "example.com", "https://example.com"},
		{"strips trailing slash", "https://example.com/", "https://example.com"},
		{"strips fragment", "https://example.com/en/#top", "https://example.com/en"},
		{"keeps http scheme", "http://example.com", "http://example.com"},
		{"trims whitespace", "  example.com  ", "https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := crawl.NormalizeWebsiteURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects unparseable URLs", func(t *testing.T) {
		t.Parallel()
		for _, in := range []string{"", "   ", "https://", "ftp://example.com", "https://exa mple.com/%zz"} {
			_, err := crawl.NormalizeWebsiteURL(in)
			assert.Equal(t, seocrawl.EINVALID, seocrawl.ErrorCode(err), in)
		}
	})
}

func TestDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	t.Run("ranks nav links first and drops blog pages", func(t *testing.T) {
		t.Parallel()

		var gotOrigin, gotHomepage string
		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, origin string) ([]string, error) {
					gotOrigin = origin
					return []string{
						"https://example.com/a",
						"https://example.com/b",
						"https://example.com/blog/c",
					}, nil
				},
			},
			Extractor: &mock.ContentExtractor{
				ExtractPageFn: func(_ context.Context, pageURL string) (*seocrawl.ExtractedPage, error) {
					gotHomepage = pageURL
					return &seocrawl.ExtractedPage{Links: []string{"https://example.com/a"}}, nil
				},
			},
		}

		got, err := d.Discover(context.Background(), "example.com", 2)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", gotOrigin)
		assert.Equal(t, "https://example.com", gotHomepage)
		assert.Equal(t, []seocrawl.Candidate{
			{URL: "https://example.com/a", IsNav: true, Weight: 9},
			{URL: "https://example.com/b", IsNav: false, Weight: -1},
		}, got)
	})

	t.Run("keeps nav links under blog paths", func(t *testing.T) {
		t.Parallel()

		d := newDiscoverer(nil, []string{"/blog", "/faq/"})

		got, err := d.Discover(context.Background(), "https://example.com", 10)

		require.NoError(t, err)
		assert.Equal(t, []seocrawl.Candidate{
			{URL: "https://example.com/blog", IsNav: true, Weight: 9},
			{URL: "https://example.com/faq/", IsNav: true, Weight: 9},
		}, got)
	})

	t.Run("resolves relative links and drops other sites", func(t *testing.T) {
		t.Parallel()

		d := newDiscoverer(
			[]string{"https://cdn.example.net/x", "http://WWW.example.com/services/drains"},
			[]string{"/about", "contact", "https://facebook.com/example", "mailto:hi@example.com", "https://www.example.com/"},
		)

		got, err := d.Discover(context.Background(), "https://example.com", 10)

		require.NoError(t, err)
		assert.Equal(t, []seocrawl.Candidate{
			{URL: "https://www.example.com/", IsNav: true, Weight: 10},
			{URL: "https://example.com/about", IsNav: true, Weight: 9},
			{URL: "https://example.com/contact", IsNav: true, Weight: 9},
			{URL: "http://WWW.example.com/services/drains", IsNav: false, Weight: -2},
		}, got)
	})

	t.Run("drops junk URLs", func(t *testing.T) {
		t.Parallel()

		d := newDiscoverer([]string{
			"https://example.com/tag/pipes",
			"https://example.com/feed",
			"https://example.com/wp-admin/edit.php",
			"https://example.com/services?ref=nav",
			"https://example.com/brochure.pdf",
			"https://example.com/sample-page/",
			"https://example.com/services",
		}, []string{"https://example.com/#main"})

		got, err := d.Discover(context.Background(), "https://example.com", 25)

		require.NoError(t, err)
		assert.Equal(t, []seocrawl.Candidate{
			{URL: "https://example.com/services", Weight: -1},
		}, got)
	})

	t.Run("merges duplicates and marks them as nav", func(t *testing.T) {
		t.Parallel()

		d := newDiscoverer(
			[]string{"https://example.com/contact/", "https://example.com/about"},
			[]string{"https://example.com/contact"},
		)

		got, err := d.Discover(context.Background(), "https://example.com", 25)

		require.NoError(t, err)
		assert.Equal(t, []seocrawl.Candidate{
			{URL: "https://example.com/contact", IsNav: true, Weight: 9},
			{URL: "https://example.com/about", Weight: -1},
		}, got)
	})

	t.Run("penalizes depth up to five segments", func(t *testing.T) {
		t.Parallel()

		d := newDiscoverer([]string{
			"https://example.com/a/b/c/d/e/f/g",
			"https://example.com/a/b",
			"https://example.com/a/b/c/d/e",
		}, nil)

		got, err := d.Discover(context.Background(), "https://example.com", 25)

		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, -2, got[0].Weight)
		assert.Equal(t, -5, got[1].Weight)
		assert.Equal(t, -5, got[2].Weight)
		assert.Equal(t, "https://example.com/a/b/c/d/e/f/g", got[1].URL, "ties keep discovery order")
	})

	t.Run("defaults max pages", func(t *testing.T) {
		t.Parallel()

		var urls []string
		for i := range 40 {
			urls = append(urls, "https://example.com/p"+string(rune('a'+i%26))+string(rune('a'+i/26)))
		}
		d := newDiscoverer(urls, nil)

		got, err := d.Discover(context.Background(), "https://example.com", 0)

		require.NoError(t, err)
		assert.Len(t, got, seocrawl.DefaultMaxPages)
	})

	t.Run("degrades when sitemap and homepage fail", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
					return nil, errors.New("boom")
				},
			},
			Extractor: &mock.ContentExtractor{
				ExtractPageFn: func(_ context.Context, _ string) (*seocrawl.ExtractedPage, error) {
					return nil, errors.New("extractor HTTP 500")
				},
			},
		}

		got, err := d.Discover(context.Background(), "https://example.com", 25)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("returns error for invalid URL before fetching", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{Sitemaps: &mock.SitemapService{}, Extractor: &mock.ContentExtractor{}}

		_, err := d.Discover(context.Background(), "ftp://example.com", 25)

		assert.Equal(t, seocrawl.EINVALID, seocrawl.ErrorCode(err))
	})

	t.Run("returns context error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(ctx context.Context, _ string) ([]string, error) {
					return nil, ctx.Err()
				},
			},
			Extractor: &mock.ContentExtractor{},
		}

		_, err := d.Discover(ctx, "https://example.com", 25)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("merges scheme and www variants of one page", func(t *testing.T) {
		t.Parallel()

		sitemap := []string{"http://example.com/a", "https://www.example.com/a", "http://WWW.example.com/b/"}
		nav := []string{"https://example.com/a"}

		got, err := newDiscoverer(sitemap, nav).Discover(context.Background(), "https://example.com", 25)

		require.NoError(t, err)
		assert.Equal(t, []seocrawl.Candidate{
			{URL: "https://example.com/a", IsNav: true, Weight: 9},
			{URL: "https://example.com/b/", Weight: -1},
		}, got)
	})

	t.Run("resolves nav links against a homepage with a trailing slash", func(t *testing.T) {
		t.Parallel()

		var gotHomepage string
		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
					return nil, nil
				},
			},
			Extractor: &mock.ContentExtractor{
				ExtractPageFn: func(_ context.Context, pageURL string) (*seocrawl.ExtractedPage, error) {
					gotHomepage = pageURL
					return &seocrawl.ExtractedPage{Links: []string{"about"}}, nil
				},
			},
		}

		got, err := d.Discover(context.Background(), "https://example.com/en/", 25)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/en/", gotHomepage)
		require.Len(t, got, 1)
		assert.Equal(t, "https://example.com/en/about", got[0].URL)
	})

	t.Run("is deterministic for identical inputs", func(t *testing.T) {
		t.Parallel()

		sitemap := []string{
			"https://example.com/x", "https://example.com/y", "https://example.com/z/1",
			"https://example.com/w", "https://example.com/v",
		}
		nav := []string{"https://example.com/y", "https://example.com/u"}

		first, err := newDiscoverer(sitemap, nav).Discover(context.Background(), "example.com", 4)
		require.NoError(t, err)
		for range 5 {
			again, err := newDiscoverer(sitemap, nav).Discover(context.Background(), "example.com", 4)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}

func TestIsJunkURL(t *testing.T) {
	t.Parallel()

	assert.True(t, crawl.IsJunkURL("https://example.com/Category/news"))
	assert.True(t, crawl.IsJunkURL("https://example.com/cart"))
	assert.True(t, crawl.IsJunkURL("https://example.com/sitemap.xml"))
	assert.False(t, crawl.IsJunkURL("https://example.com/testimonials"))
	assert.False(t, crawl.IsJunkURL("https://example.com/services/drain-cleaning"))
}
