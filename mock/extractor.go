package mock

import (
	"context"

	"github.com/fwojciec/seocrawl"
)

var (
	_ seocrawl.Extractor        = (*Extractor)(nil)
	_ seocrawl.ContentExtractor = (*ContentExtractor)(nil)
	_ seocrawl.PageParser       = (*PageParser)(nil)
)

// Extractor is a mock implementation of seocrawl.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*seocrawl.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*seocrawl.ExtractResult, error) {
	return e.ExtractFn(html)
}

// ContentExtractor is a mock implementation of seocrawl.ContentExtractor.
type ContentExtractor struct {
	ExtractPageFn func(ctx context.Context, pageURL string) (*seocrawl.ExtractedPage, error)
}

func (e *ContentExtractor) ExtractPage(ctx context.Context, pageURL string) (*seocrawl.ExtractedPage, error) {
	return e.ExtractPageFn(ctx, pageURL)
}

// PageParser is a mock implementation of seocrawl.PageParser.
type PageParser struct {
	ParseFn func(html string, baseURL string) (*seocrawl.ParsedPage, error)
}

func (p *PageParser) Parse(html string, baseURL string) (*seocrawl.ParsedPage, error) {
	return p.ParseFn(html, baseURL)
}
