package crawl

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/seocrawl"
)

// Ensure PageExtractor implements seocrawl.ContentExtractor at compile time.
var _ seocrawl.ContentExtractor = (*PageExtractor)(nil)

// PageExtractor is a local content extractor. It fetches a page, parses
// its structure and converts the main content to text, trying each
// extractor in turn.
type PageExtractor struct {
	Fetcher    seocrawl.Fetcher
	Parser     seocrawl.PageParser
	Extractors []seocrawl.Extractor
	Converter  seocrawl.Converter
}

// ExtractPage implements seocrawl.ContentExtractor. When no extractor
// finds main content the parsed body text is used instead.
func (p *PageExtractor) ExtractPage(ctx context.Context, pageURL string) (*seocrawl.ExtractedPage, error) {
	html, err := p.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	parsed, err := p.Parser.Parse(html, pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	page := &seocrawl.ExtractedPage{
		Title:           parsed.Title,
		MetaDescription: parsed.MetaDescription,
		Headings:        parsed.Headings,
		Links:           parsed.Links,
	}

	for _, ex := range p.Extractors {
		result, err := ex.Extract(html)
		if err != nil || strings.TrimSpace(result.ContentHTML) == "" {
			continue
		}
		text, err := p.Converter.Convert(result.ContentHTML)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		page.TextContent = text
		if page.Title == "" {
			page.Title = result.Title
		}
		break
	}

	if page.TextContent == "" {
		page.TextContent = parsed.BodyText
	}

	return page, nil
}
