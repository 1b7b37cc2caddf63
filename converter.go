package seocrawl

// Converter converts HTML to text content.
type Converter interface {
	// Convert transforms HTML content into Markdown text.
	// The input should be clean HTML (e.g., from an Extractor).
	Convert(html string) (string, error)
}
