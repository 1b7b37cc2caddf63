package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/seocrawl"
)

// Ensure SitemapService implements seocrawl.SitemapService.
var _ seocrawl.SitemapService = (*SitemapService)(nil)

// sitemapPaths are the well-known sitemap locations probed at the origin.
var sitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml"}

// SitemapService discovers URLs from website sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
	logger *slog.Logger
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, a client with DefaultFetchTimeout is used. If logger is
// nil, swallowed sitemap failures are discarded.
func NewSitemapService(client *http.Client, logger *slog.Logger) *SitemapService {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SitemapService{client: client, logger: logger}
}

// DiscoverURLs fetches /sitemap.xml and /sitemap_index.xml from the origin.
// A sitemap index is expanded one level: its child sitemaps are fetched,
// but indexes nested inside them are ignored. Any sitemap that fails to
// fetch or parse is logged and skipped.
//
// Returns an empty slice (not nil) if no sitemaps are found.
func (s *SitemapService) DiscoverURLs(ctx context.Context, origin string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(origin)
	if err != nil {
		return nil, seocrawl.Errorf(seocrawl.EINVALID, "invalid origin: %v", err)
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	urls := []string{}
	seenURLs := make(map[string]bool)
	seenSitemaps := make(map[string]bool)

	collect := func(found []string) {
		for _, u := range found {
			if !seenURLs[u] {
				seenURLs[u] = true
				urls = append(urls, u)
			}
		}
	}

	for _, path := range sitemapPaths {
		sitemapURL := base.ResolveReference(&url.URL{Path: path}).String()

		locs, isIndex, err := s.fetchSitemap(ctx, sitemapURL, seenSitemaps)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("sitemap fetch failed", "url", sitemapURL, "err", err)
			continue
		}
		if !isIndex {
			collect(locs)
			continue
		}

		for _, child := range locs {
			childLocs, childIsIndex, err := s.fetchSitemap(ctx, child, seenSitemaps)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				s.logger.Warn("sitemap fetch failed", "url", child, "err", err)
				continue
			}
			if childIsIndex {
				s.logger.Debug("nested sitemap index skipped", "url", child)
				continue
			}
			collect(childLocs)
		}
	}

	return urls, nil
}

// fetchSitemap fetches and parses one sitemap. It returns the <loc> values
// and whether the document is a sitemap index. Sitemaps already seen
// return no locations.
func (s *SitemapService) fetchSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, bool, error) {
	if seen[sitemapURL] {
		return nil, false, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, false, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, false, fmt.Errorf("parsing sitemap XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, false, fmt.Errorf("empty sitemap XML")
	}

	switch root.Tag {
	case "sitemapindex":
		return selectLocs(root, "sitemap"), true, nil
	case "urlset":
		return selectLocs(root, "url"), false, nil
	}
	return nil, false, fmt.Errorf("unexpected sitemap root <%s>", root.Tag)
}

// selectLocs extracts the trimmed <loc> text of each child element named tag.
func selectLocs(root *etree.Element, tag string) []string {
	var locs []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			locs = append(locs, u)
		}
	}
	return locs
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}
