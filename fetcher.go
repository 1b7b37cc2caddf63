package seocrawl

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch requests the URL and returns the response body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}
