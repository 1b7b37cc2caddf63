// Package readability extracts the main content of a page with
// go-readability. It serves as the fallback when trafilatura finds nothing.
package readability

import (
	"strings"

	"github.com/fwojciec/seocrawl"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements seocrawl.Extractor at compile time.
var _ seocrawl.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements seocrawl.Extractor. Pages readability does not
// consider articles yield an empty ContentHTML rather than an error.
func (e *Extractor) Extract(rawHTML string) (*seocrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, seocrawl.Errorf(seocrawl.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	out := &seocrawl.ExtractResult{Title: strings.TrimSpace(article.Title)}
	if strings.TrimSpace(article.TextContent) != "" {
		out.ContentHTML = article.Content
	}
	return out, nil
}
