package seocrawl

import (
	"context"
	"slices"
	"time"
)

// PageTTL is the advisory lifetime of a cached page. Nothing reaps
// expired pages; readers may use ExpiresAt to decide on a re-crawl.
const PageTTL = 24 * time.Hour

// Page provenance tags.
const (
	SourceSiteCrawl    = "site-crawl"
	SourceManual       = "manual"
	SourcePivotRecrawl = "pivot-recrawl"
)

// Crawl tags attached to pages the operator added by hand.
const (
	TagManual    = "manual"
	TagAdded     = "Added"
	TagRecrawled = "recrawled"
)

// Heading is an h1-h6 element found on a page.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// CachedPage is the extracted content of one page, owned by one user.
type CachedPage struct {
	UserID          string    `json:"userId"`
	PageURL         string    `json:"pageUrl"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"metaDescription"`
	TextContent     string    `json:"textContent"`
	Headings        []Heading `json:"headings"`
	Source          string    `json:"source"`
	IsNavLink       bool      `json:"isNavLink"`
	CrawlOrder      *int      `json:"crawlOrder"`
	CrawlTags       []string  `json:"crawlTags"`
	CachedAt        time.Time `json:"cachedAt"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

// Validate returns an error if the page contains invalid fields.
func (p *CachedPage) Validate() error {
	if p.UserID == "" {
		return Errorf(EINVALID, "cached page user ID required")
	}
	if p.PageURL == "" {
		return Errorf(EINVALID, "cached page URL required")
	}
	return nil
}

// Merge fills the fields p leaves unset from the previously cached copy.
// A write without a crawl order carries no discovery metadata, so the
// previous crawl order and nav flag are kept. Tags are unioned with the
// previous tags first.
func (p *CachedPage) Merge(prev *CachedPage) {
	if prev == nil {
		return
	}
	if p.Title == "" {
		p.Title = prev.Title
	}
	if p.MetaDescription == "" {
		p.MetaDescription = prev.MetaDescription
	}
	if p.TextContent == "" {
		p.TextContent = prev.TextContent
	}
	if len(p.Headings) == 0 {
		p.Headings = prev.Headings
	}
	if p.Source == "" {
		p.Source = prev.Source
	}
	if p.CrawlOrder == nil {
		p.CrawlOrder = prev.CrawlOrder
		p.IsNavLink = p.IsNavLink || prev.IsNavLink
	}

	tags := slices.Clone(prev.CrawlTags)
	for _, t := range p.CrawlTags {
		if !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	p.CrawlTags = tags
}

// PageFilter represents a filter for FindCachedPages.
type PageFilter struct {
	Source *string  `json:"source"`
	URLs   []string `json:"urls"`

	Limit int `json:"limit"`
}

// PageCache stores cached pages keyed by user and URL.
type PageCache interface {
	// FindCachedPage retrieves one page.
	// Returns ENOTFOUND if the page is not cached.
	FindCachedPage(ctx context.Context, userID, pageURL string) (*CachedPage, error)

	// FindCachedPages retrieves a user's pages matching the filter, ordered
	// by crawl order with unranked pages last.
	FindCachedPages(ctx context.Context, userID string, filter PageFilter) ([]*CachedPage, error)

	// CachePage creates or overwrites a page.
	CachePage(ctx context.Context, page *CachedPage) error

	// DeleteCachedPage removes a page.
	// Returns ENOTFOUND if the page is not cached.
	DeleteCachedPage(ctx context.Context, userID, pageURL string) error
}

// SortByCrawlOrder orders pages by ascending crawl order with unranked
// pages last, keeping the relative order of ties.
func SortByCrawlOrder[T any](items []T, order func(T) *int) {
	slices.SortStableFunc(items, func(a, b T) int {
		oa, ob := order(a), order(b)
		switch {
		case oa == nil && ob == nil:
			return 0
		case oa == nil:
			return 1
		case ob == nil:
			return -1
		}
		return *oa - *ob
	})
}
