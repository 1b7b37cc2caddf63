package seocrawl

import "context"

// ExtractedPage is the normalized content of a fetched page.
type ExtractedPage struct {
	Title           string    `json:"title"`
	MetaDescription string    `json:"metaDescription"`
	TextContent     string    `json:"textContent"`
	Headings        []Heading `json:"headings"`

	// Links holds the page's outbound anchors resolved to absolute URLs.
	Links []string `json:"links,omitempty"`
}

// ContentExtractor fetches a page and returns its normalized content.
// Every call may fail independently; callers treat a failure as affecting
// that page only.
type ContentExtractor interface {
	ExtractPage(ctx context.Context, pageURL string) (*ExtractedPage, error)
}

// ParsedPage holds the structural elements of an HTML document.
type ParsedPage struct {
	Title           string
	MetaDescription string
	Headings        []Heading
	Links           []string

	// BodyText is the whitespace-collapsed text of the body, used when
	// main-content extraction yields nothing.
	BodyText string
}

// PageParser parses raw HTML into its structural elements.
type PageParser interface {
	// Parse parses html. The baseURL is used to resolve relative links.
	Parse(html string, baseURL string) (*ParsedPage, error)
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}
