// Package goquery parses HTML pages with goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/seocrawl"
)

// Ensure Parser implements seocrawl.PageParser at compile time.
var _ seocrawl.PageParser = (*Parser)(nil)

// headingSelector matches headings in document order.
const headingSelector = "h1, h2, h3, h4, h5, h6"

// Parser extracts the title, meta description, headings, links and body
// text of an HTML page.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements seocrawl.PageParser. Links are every http(s) anchor on
// the page resolved against baseURL, without fragments, in document order.
// External links are kept; callers decide which sites they care about.
func (p *Parser) Parse(html string, baseURL string) (*seocrawl.ParsedPage, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, seocrawl.Errorf(seocrawl.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, seocrawl.Errorf(seocrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	page := &seocrawl.ParsedPage{
		Title:           collapseSpace(doc.Find("head title").First().Text()),
		MetaDescription: metaContent(doc, "description"),
	}
	if page.Title == "" {
		page.Title = metaContent(doc, "og:title")
	}
	if page.MetaDescription == "" {
		page.MetaDescription = metaContent(doc, "og:description")
	}

	doc.Find(headingSelector).Each(func(_ int, sel *goquery.Selection) {
		text := collapseSpace(sel.Text())
		if text == "" {
			return
		}
		page.Headings = append(page.Headings, seocrawl.Heading{
			Level: int(goquery.NodeName(sel)[1] - '0'),
			Text:  text,
		})
	})

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		page.Links = append(page.Links, resolved)
	})

	body := doc.Find("body")
	body.Find("script, style, noscript, template").Remove()
	page.BodyText = collapseSpace(body.Text())

	return page, nil
}

// metaContent returns the content of the first meta tag whose name or
// property equals key, ignoring case.
func metaContent(doc *goquery.Document, key string) string {
	var content string
	doc.Find("meta[content]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name, _ := sel.Attr("name")
		if name == "" {
			name, _ = sel.Attr("property")
		}
		if !strings.EqualFold(strings.TrimSpace(name), key) {
			return true
		}
		content = collapseSpace(sel.AttrOr("content", ""))
		return content == ""
	})
	return content
}

// resolveURL resolves href against base and strips the fragment.
// Returns empty string if href cannot be parsed or is not http(s).
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
