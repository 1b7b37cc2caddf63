package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/fwojciec/seocrawl"
)

// Candidate weighting.
const (
	navWeight     = 10
	maxDepthCost  = 5
	unparsedDepth = 99
)

// junkPatterns are matched case-insensitively against the URL with a
// trailing slash appended, so "/feed/" also matches ".../feed".
var junkPatterns = []string{
	"/tag/", "/tags/", "/category/", "/categories/", "/author/",
	"/feed/", "/rss/",
	"/wp-admin", "/wp-json", "/wp-content", "/wp-login",
	"?", "#",
	"/page/", "/amp/", "/print/",
	".xml/", ".pdf/", ".jpg/", ".jpeg/", ".png/", ".gif/", ".svg/", ".zip/",
	"/test/", "/demo/", "/draft/", "/drafts/",
	"/placeholder", "/sample-page/", "/hello-world/", "/lorem-ipsum",
	"/cart/", "/checkout/", "/my-account/", "/login/",
}

// deprioritizedSegments drop non-navigation URLs from the initial crawl.
var deprioritizedSegments = []string{"blog", "faq"}

// Discoverer builds the ranked candidate list for a website from its
// sitemaps and the links on its homepage.
type Discoverer struct {
	Sitemaps  seocrawl.SitemapService
	Extractor seocrawl.ContentExtractor
	Logger    *slog.Logger
}

// NormalizeWebsiteURL adds an https scheme when none is given and strips
// the fragment and trailing slash. Returns EINVALID if the result is not
// an absolute http(s) URL.
func NormalizeWebsiteURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", seocrawl.Errorf(seocrawl.EINVALID, "website URL required")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", seocrawl.Errorf(seocrawl.EINVALID, "invalid website URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", seocrawl.Errorf(seocrawl.EINVALID, "invalid website URL %q: unsupported scheme", raw)
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""

	return u.String(), nil
}

// Discover returns up to maxPages candidates for websiteURL, navigation
// links first, ranked by weight. Sitemap and homepage failures degrade
// discovery instead of failing it; only an invalid URL or a done context
// is returned as an error.
func (d *Discoverer) Discover(ctx context.Context, websiteURL string, maxPages int) ([]seocrawl.Candidate, error) {
	homepage, err := NormalizeWebsiteURL(websiteURL)
	if err != nil {
		return nil, err
	}
	if maxPages <= 0 {
		maxPages = seocrawl.DefaultMaxPages
	}
	logger := loggerOrDiscard(d.Logger)

	// Relative homepage links resolve against the address as given, so
	// "/en/" keeps its trailing slash.
	fetchURL := homepageFetchURL(homepage, websiteURL)
	base, _ := url.Parse(fetchURL)
	origin := base.Scheme + "://" + base.Host

	sitemapURLs, err := d.Sitemaps.DiscoverURLs(ctx, origin)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("sitemap discovery failed", "origin", origin, "err", err)
	}

	var navLinks []string
	page, err := d.Extractor.ExtractPage(ctx, fetchURL)
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		logger.Warn("homepage extraction failed", "url", fetchURL, "err", err)
	default:
		navLinks = page.Links
	}

	return rankCandidates(base, navLinks, sitemapURLs, maxPages), nil
}

// homepageFetchURL returns the normalized homepage with the trailing slash
// of the raw input restored on a non-root path.
func homepageFetchURL(homepage, raw string) string {
	raw, _, _ = strings.Cut(strings.TrimSpace(raw), "#")
	u, err := url.Parse(homepage)
	if err != nil || u.Path == "" || u.RawQuery != "" || !strings.HasSuffix(raw, "/") {
		return homepage
	}
	u.Path += "/"
	return u.String()
}

// rankCandidates unions nav and sitemap URLs on the same site, drops junk,
// scores the rest and returns the top maxPages.
func rankCandidates(base *url.URL, navLinks, sitemapURLs []string, maxPages int) []seocrawl.Candidate {
	var (
		all  []seocrawl.Candidate
		seen = make(map[string]int)
	)
	add := func(raw string, isNav bool) {
		u, err := base.Parse(strings.TrimSpace(raw))
		if err != nil || !sameSite(base, u) {
			return
		}
		// Scheme and www variants of one page share the homepage's form.
		u.Scheme, u.Host = base.Scheme, base.Host
		s := u.String()
		key := strings.TrimSuffix(s, "/")
		if i, ok := seen[key]; ok {
			all[i].IsNav = all[i].IsNav || isNav
			return
		}
		seen[key] = len(all)
		all = append(all, seocrawl.Candidate{URL: s, IsNav: isNav})
	}
	for _, link := range navLinks {
		add(link, true)
	}
	for _, link := range sitemapURLs {
		add(link, false)
	}

	var nav, other []seocrawl.Candidate
	for _, c := range all {
		if IsJunkURL(c.URL) {
			continue
		}
		c.Weight = candidateWeight(c.URL, c.IsNav)
		switch {
		case c.IsNav:
			nav = append(nav, c)
		case !hasDeprioritizedSegment(c.URL):
			other = append(other, c)
		}
	}

	ranked := append(nav, other...)
	slices.SortStableFunc(ranked, func(a, b seocrawl.Candidate) int {
		return b.Weight - a.Weight
	})
	if len(ranked) > maxPages {
		ranked = ranked[:maxPages]
	}
	if ranked == nil {
		ranked = []seocrawl.Candidate{}
	}
	return ranked
}

// IsJunkURL reports whether rawURL matches the discovery denylist.
func IsJunkURL(rawURL string) bool {
	s := strings.ToLower(rawURL) + "/"
	for _, p := range junkPatterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func candidateWeight(rawURL string, isNav bool) int {
	w := -min(pathDepth(rawURL), maxDepthCost)
	if isNav {
		w += navWeight
	}
	return w
}

// pathDepth counts the non-empty path segments of rawURL.
func pathDepth(rawURL string) int {
	u, err := url.Parse(rawURL)
	if err != nil {
		return unparsedDepth
	}
	return len(pathSegments(u.Path))
}

func pathSegments(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
}

func hasDeprioritizedSegment(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for _, seg := range pathSegments(strings.ToLower(u.Path)) {
		if slices.Contains(deprioritizedSegments, seg) {
			return true
		}
	}
	return false
}

// sameSite reports whether u is on the same host as base, ignoring case,
// scheme and a leading "www.".
func sameSite(base, u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return siteHost(base) == siteHost(u)
}

func siteHost(u *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
