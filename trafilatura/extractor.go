// Package trafilatura extracts the main content of a page with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/seocrawl"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements seocrawl.Extractor at compile time.
var _ seocrawl.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
// Comments sections and repeated blocks are dropped so that text content
// reflects what the business wrote about itself.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements seocrawl.Extractor.
func (e *Extractor) Extract(rawHTML string) (*seocrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, seocrawl.Errorf(seocrawl.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
	})
	if err != nil {
		return nil, err
	}

	out := &seocrawl.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
