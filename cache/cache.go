// Package cache provides the page cache facade used while cached pages
// migrate from the legacy flat layout to the per-user layout.
package cache

import (
	"context"
	"errors"

	"github.com/fwojciec/seocrawl"
)

// Ensure DualWrite implements seocrawl.PageCache at compile time.
var _ seocrawl.PageCache = (*DualWrite)(nil)

// DualWrite composes two page layouts behind one seocrawl.PageCache.
//
// Reads prefer Primary and fall back to Legacy. Writes merge with the
// existing copy from either layout and go to both. Deletes target both
// layouts, since either may hold the authoritative copy.
type DualWrite struct {
	Primary seocrawl.PageCache
	Legacy  seocrawl.PageCache
}

// NewDualWrite creates a new DualWrite facade.
func NewDualWrite(primary, legacy seocrawl.PageCache) *DualWrite {
	return &DualWrite{Primary: primary, Legacy: legacy}
}

// FindCachedPage returns the primary copy of a page, or the legacy copy
// when the primary layout does not have it.
func (c *DualWrite) FindCachedPage(ctx context.Context, userID, pageURL string) (*seocrawl.CachedPage, error) {
	page, err := c.Primary.FindCachedPage(ctx, userID, pageURL)
	if err == nil {
		return page, nil
	}
	if seocrawl.ErrorCode(err) != seocrawl.ENOTFOUND {
		return nil, err
	}
	return c.Legacy.FindCachedPage(ctx, userID, pageURL)
}

// FindCachedPages returns the union of both layouts, deduplicated by URL
// with primary copies winning.
func (c *DualWrite) FindCachedPages(ctx context.Context, userID string, filter seocrawl.PageFilter) ([]*seocrawl.CachedPage, error) {
	primary, err := c.Primary.FindCachedPages(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	legacy, err := c.Legacy.FindCachedPages(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(primary))
	pages := make([]*seocrawl.CachedPage, 0, len(primary)+len(legacy))
	for _, p := range primary {
		seen[p.PageURL] = true
		pages = append(pages, p)
	}
	for _, p := range legacy {
		if !seen[p.PageURL] {
			seen[p.PageURL] = true
			pages = append(pages, p)
		}
	}

	seocrawl.SortByCrawlOrder(pages, func(p *seocrawl.CachedPage) *int { return p.CrawlOrder })

	if filter.Limit > 0 && len(pages) > filter.Limit {
		pages = pages[:filter.Limit]
	}
	return pages, nil
}

// CachePage merges page with any existing copy and writes it to both layouts.
func (c *DualWrite) CachePage(ctx context.Context, page *seocrawl.CachedPage) error {
	if err := page.Validate(); err != nil {
		return err
	}

	prev, err := c.FindCachedPage(ctx, page.UserID, page.PageURL)
	switch {
	case err == nil:
		page.Merge(prev)
	case seocrawl.ErrorCode(err) != seocrawl.ENOTFOUND:
		return err
	}

	if err := c.Primary.CachePage(ctx, page); err != nil {
		return err
	}
	return c.Legacy.CachePage(ctx, page)
}

// DeleteCachedPage removes a page from both layouts.
// Returns ENOTFOUND only if neither layout held the page.
func (c *DualWrite) DeleteCachedPage(ctx context.Context, userID, pageURL string) error {
	var (
		found bool
		errs  []error
	)
	for _, layout := range []seocrawl.PageCache{c.Primary, c.Legacy} {
		err := layout.DeleteCachedPage(ctx, userID, pageURL)
		switch {
		case err == nil:
			found = true
		case seocrawl.ErrorCode(err) != seocrawl.ENOTFOUND:
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if !found {
		return seocrawl.Errorf(seocrawl.ENOTFOUND, "cached page not found")
	}
	return nil
}
