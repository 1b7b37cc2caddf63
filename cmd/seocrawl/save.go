package main

import (
	"fmt"

	"github.com/fwojciec/seocrawl"
)

// Run executes the save command. Stored review decisions are committed,
// together with any given as flags. When a crawl awaits review and nothing
// has been approved yet, every kept pending page is approved.
func (c *SaveCmd) Run(deps *Dependencies) error {
	review, err := deps.Reviewer.Review(deps.Ctx, c.UserID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seocrawl.ErrorMessage(err))
		return err
	}

	approve := c.Approve
	if review.RequiresReview && len(review.Preferences.ApprovedURLs) == 0 {
		for _, p := range review.Pages {
			if p.Kept {
				approve = append(approve, p.URL)
			}
		}
	}
	prefs := mergePreferences(review.Preferences, approve, c.Exclude, c.Add)

	result, err := deps.Committer.Commit(deps.Ctx, c.UserID, prefs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seocrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d of %d pages, removed %d\n", result.Saved, result.Total, result.Removed)
	printPageErrors(deps, result.Errors)
	return nil
}
