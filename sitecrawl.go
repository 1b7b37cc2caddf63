package seocrawl

import (
	"context"
	"time"
)

// CrawlStatus is the lifecycle state of a user's site crawl.
type CrawlStatus string

// Crawl lifecycle states.
const (
	CrawlNotStarted          CrawlStatus = "not-started"
	CrawlInProgress          CrawlStatus = "in-progress"
	CrawlAwaitingReview      CrawlStatus = "awaiting-review"
	CrawlCompleted           CrawlStatus = "completed"
	CrawlCompletedWithErrors CrawlStatus = "completed-with-errors"
	CrawlError               CrawlStatus = "error"
)

// ParseCrawlStatus converts a stored string into a CrawlStatus.
// An empty string is treated as CrawlNotStarted.
func ParseCrawlStatus(s string) (CrawlStatus, error) {
	switch CrawlStatus(s) {
	case "":
		return CrawlNotStarted, nil
	case CrawlNotStarted, CrawlInProgress, CrawlAwaitingReview,
		CrawlCompleted, CrawlCompletedWithErrors, CrawlError:
		return CrawlStatus(s), nil
	}
	return "", Errorf(EINVALID, "unknown crawl status %q", s)
}

// Terminal reports whether no further executor transitions follow the status.
func (s CrawlStatus) Terminal() bool {
	switch s {
	case CrawlCompleted, CrawlCompletedWithErrors, CrawlError:
		return true
	case CrawlNotStarted, CrawlInProgress, CrawlAwaitingReview:
		return false
	}
	return false
}

// CompletionStatus returns the terminal status for a run that attempted
// every page and recorded errCount per-page failures.
func CompletionStatus(errCount int) CrawlStatus {
	if errCount > 0 {
		return CrawlCompletedWithErrors
	}
	return CrawlCompleted
}

// SiteCrawl is the per-user record of the most recent crawl and the
// operator's review decisions.
type SiteCrawl struct {
	UserID       string      `json:"userId"`
	RunID        string      `json:"runId"`
	Status       CrawlStatus `json:"status"`
	WebsiteURL   string      `json:"websiteUrl"`
	MaxPages     int         `json:"maxPages"`
	ErrorMessage string      `json:"errorMessage,omitempty"`

	// PendingPages is only populated while Status is CrawlAwaitingReview.
	PendingPages       []*PendingPage `json:"pendingPages,omitempty"`
	PendingGeneratedAt time.Time      `json:"pendingGeneratedAt"`

	ApprovedURLs []string `json:"approvedUrls"`
	ExcludedURLs []string `json:"excludedUrls"`
	ManualURLs   []string `json:"manualUrls"`

	PageCount  int `json:"pageCount"`
	ErrorCount int `json:"errorCount"`

	StartedAt      time.Time `json:"startedAt"`
	CompletedAt    time.Time `json:"completedAt"`
	LastRun        time.Time `json:"lastRun"`
	LastReviewedAt time.Time `json:"lastReviewedAt"`
}

// Validate returns an error if the crawl record contains invalid fields.
func (c *SiteCrawl) Validate() error {
	if c.UserID == "" {
		return Errorf(EINVALID, "site crawl user ID required")
	}
	if _, err := ParseCrawlStatus(string(c.Status)); err != nil {
		return err
	}
	return nil
}

// Preferences returns the operator decisions stored on the record.
func (c *SiteCrawl) Preferences() Preferences {
	return Preferences{
		ApprovedURLs: c.ApprovedURLs,
		ExcludedURLs: c.ExcludedURLs,
		ManualURLs:   c.ManualURLs,
	}
}

// PendingPage is a discovered page held for operator review before it is
// committed to the page cache.
type PendingPage struct {
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"metaDescription"`
	TextContent     string    `json:"textContent"`
	Headings        []Heading `json:"headings"`
	IsNavLink       bool      `json:"isNavLink"`
	CrawlOrder      *int      `json:"crawlOrder"`
	CrawlTags       []string  `json:"crawlTags,omitempty"`

	// Kept is nil until the operator has made a choice.
	Kept *bool `json:"kept,omitempty"`
}

// SiteCrawlService represents a service for managing site crawl records.
type SiteCrawlService interface {
	// FindSiteCrawl retrieves the crawl record for a user.
	// Returns ENOTFOUND if no crawl has been started for the user.
	FindSiteCrawl(ctx context.Context, userID string) (*SiteCrawl, error)

	// SaveSiteCrawl creates or overwrites the crawl record for crawl.UserID.
	SaveSiteCrawl(ctx context.Context, crawl *SiteCrawl) error

	// UpdateSiteCrawl merges the non-nil fields of upd into the record.
	// Returns ENOTFOUND if the record does not exist.
	UpdateSiteCrawl(ctx context.Context, userID string, upd SiteCrawlUpdate) (*SiteCrawl, error)
}

// SiteCrawlUpdate represents fields that can be updated on a site crawl.
type SiteCrawlUpdate struct {
	Status       *CrawlStatus `json:"status"`
	ErrorMessage *string      `json:"errorMessage"`
	PageCount    *int         `json:"pageCount"`
	ErrorCount   *int         `json:"errorCount"`

	PendingPages       *[]*PendingPage `json:"pendingPages"`
	PendingGeneratedAt *time.Time      `json:"pendingGeneratedAt"`

	// ClearPending deletes PendingPages and PendingGeneratedAt.
	// It takes precedence over PendingPages.
	ClearPending bool `json:"clearPending"`

	ApprovedURLs *[]string `json:"approvedUrls"`
	ExcludedURLs *[]string `json:"excludedUrls"`
	ManualURLs   *[]string `json:"manualUrls"`

	CompletedAt    *time.Time `json:"completedAt"`
	LastRun        *time.Time `json:"lastRun"`
	LastReviewedAt *time.Time `json:"lastReviewedAt"`
}

// Apply merges the update into c.
func (u SiteCrawlUpdate) Apply(c *SiteCrawl) {
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.ErrorMessage != nil {
		c.ErrorMessage = *u.ErrorMessage
	}
	if u.PageCount != nil {
		c.PageCount = *u.PageCount
	}
	if u.ErrorCount != nil {
		c.ErrorCount = *u.ErrorCount
	}
	if u.PendingPages != nil {
		c.PendingPages = *u.PendingPages
	}
	if u.PendingGeneratedAt != nil {
		c.PendingGeneratedAt = *u.PendingGeneratedAt
	}
	if u.ClearPending {
		c.PendingPages = nil
		c.PendingGeneratedAt = time.Time{}
	}
	if u.ApprovedURLs != nil {
		c.ApprovedURLs = *u.ApprovedURLs
	}
	if u.ExcludedURLs != nil {
		c.ExcludedURLs = *u.ExcludedURLs
	}
	if u.ManualURLs != nil {
		c.ManualURLs = *u.ManualURLs
	}
	if u.CompletedAt != nil {
		c.CompletedAt = *u.CompletedAt
	}
	if u.LastRun != nil {
		c.LastRun = *u.LastRun
	}
	if u.LastReviewedAt != nil {
		c.LastReviewedAt = *u.LastReviewedAt
	}
}

// OnboardingService records the user-facing onboarding flag that mirrors
// the crawl status for the rest of the product.
type OnboardingService interface {
	SetSiteCrawlStatus(ctx context.Context, userID string, status CrawlStatus) error
}
