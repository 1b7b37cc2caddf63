package seocrawl

import (
	"context"
	"time"
)

// DefaultMaxPages is the crawl size used when a request does not set one.
const DefaultMaxPages = 25

// CrawlRequest starts a discovery crawl of a user's website.
type CrawlRequest struct {
	UserID     string `json:"userId"`
	WebsiteURL string `json:"websiteUrl"`
	MaxPages   int    `json:"maxPages,omitempty"`
}

// Validate returns an error if the request is missing required fields.
func (r *CrawlRequest) Validate() error {
	if r.UserID == "" {
		return Errorf(EINVALID, "user ID required")
	}
	if r.WebsiteURL == "" {
		return Errorf(EINVALID, "website URL required")
	}
	if r.MaxPages < 0 {
		return Errorf(EINVALID, "max pages must not be negative")
	}
	return nil
}

// CrawlResult summarizes one crawl run.
type CrawlResult struct {
	Processed int         `json:"processed"`
	Attempted int         `json:"attempted"`
	Errors    []PageError `json:"errors"`
}

// CrawlService discovers and crawls a user's website.
type CrawlService interface {
	// Crawl runs discovery and fetches every candidate. Per-page failures
	// are reported in the result; only orchestration failures are returned
	// as errors, after the crawl record has been marked CrawlError.
	Crawl(ctx context.Context, req CrawlRequest) (*CrawlResult, error)
}

// ReviewPage is one page shown to the operator during review.
type ReviewPage struct {
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"metaDescription"`
	TextContent     string    `json:"textContent"`
	Headings        []Heading `json:"headings"`
	Source          string    `json:"source,omitempty"`
	IsNavLink       bool      `json:"isNavLink"`
	CrawlOrder      *int      `json:"crawlOrder"`
	CrawlTags       []string  `json:"crawlTags"`
	Kept            bool      `json:"kept"`

	// Cached is false for approved URLs that have not been fetched yet.
	Cached bool `json:"cached"`
}

// Review is the operator's view of a user's crawl.
type Review struct {
	Pages          []*ReviewPage `json:"pages"`
	Status         CrawlStatus   `json:"status"`
	LastRun        *time.Time    `json:"lastRun"`
	RequiresReview bool          `json:"requiresReview"`
	Preferences    Preferences   `json:"preferences"`
}

// ReviewService reads crawl results and records operator decisions.
type ReviewService interface {
	// Review returns the pages to review for a user.
	// Returns ENOTFOUND if no crawl exists for the user.
	Review(ctx context.Context, userID string) (*Review, error)

	// SavePreferences normalizes and stores the operator's decisions
	// without touching cached pages. Returns the stored preferences.
	SavePreferences(ctx context.Context, userID string, prefs Preferences) (Preferences, error)
}

// CommitResult summarizes one commit of review decisions.
type CommitResult struct {
	Saved   int         `json:"saved"`
	Removed int         `json:"removed"`
	Errors  []PageError `json:"errors"`
	Total   int         `json:"total"`
}

// CommitService turns review decisions into the persisted page set.
type CommitService interface {
	// Commit fetches approved and manual pages into the cache and deletes
	// excluded ones. Returns EINVALID if no crawl exists for the user and
	// ENOCHANGES if there is nothing to commit.
	Commit(ctx context.Context, userID string, prefs Preferences) (*CommitResult, error)
}
