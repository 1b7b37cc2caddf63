package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/fwojciec/seocrawl"
	"github.com/fwojciec/seocrawl/crawl"
)

// Run executes the review command. Any decisions given as flags are saved
// before the review is shown.
func (c *ReviewCmd) Run(deps *Dependencies) error {
	review, err := deps.Reviewer.Review(deps.Ctx, c.UserID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seocrawl.ErrorMessage(err))
		return err
	}

	if len(c.Approve)+len(c.Exclude)+len(c.Add) > 0 {
		prefs := mergePreferences(review.Preferences, c.Approve, c.Exclude, c.Add)
		if _, err := deps.Reviewer.SavePreferences(deps.Ctx, c.UserID, prefs); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", seocrawl.ErrorMessage(err))
			return err
		}
		if review, err = deps.Reviewer.Review(deps.Ctx, c.UserID); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", seocrawl.ErrorMessage(err))
			return err
		}
	}

	printReview(deps, review)
	return nil
}

func printReview(deps *Dependencies, review *seocrawl.Review) {
	fmt.Fprintf(deps.Stdout, "Status: %s\n", review.Status)
	if review.LastRun != nil {
		fmt.Fprintf(deps.Stdout, "Last run: %s\n", review.LastRun.Format(time.RFC3339))
	}
	if review.RequiresReview {
		fmt.Fprintln(deps.Stdout, "Awaiting review. Run 'seocrawl save' to commit.")
	}

	if len(review.Pages) == 0 {
		fmt.Fprintln(deps.Stdout, "No pages found.")
		return
	}
	for _, p := range review.Pages {
		mark := "[ ]"
		if p.Kept {
			mark = "[x]"
		}
		var flags string
		if p.IsNavLink {
			flags += " nav"
		}
		if !p.Cached && !review.RequiresReview {
			flags += " not cached"
		}
		fmt.Fprintf(deps.Stdout, "%s %-60s %8s%s\n", mark, crawl.TruncateURL(p.URL, urlWidth), crawl.FormatBytes(len(p.TextContent)), flags)
		if p.Title != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", p.Title)
		}
	}
	if n := len(review.Preferences.ManualURLs); n > 0 {
		fmt.Fprintf(deps.Stdout, "%d manual URLs\n", n)
	}
}

// mergePreferences adds flag decisions to the stored ones. A URL approved
// on the command line is no longer excluded.
func mergePreferences(cur seocrawl.Preferences, approve, exclude, add []string) seocrawl.Preferences {
	excluded := slices.DeleteFunc(slices.Clone(cur.ExcludedURLs), func(u string) bool {
		return slices.Contains(approve, u)
	})
	return seocrawl.Preferences{
		ApprovedURLs: append(slices.Clone(cur.ApprovedURLs), approve...),
		ExcludedURLs: append(excluded, exclude...),
		ManualURLs:   append(slices.Clone(cur.ManualURLs), add...),
	}.Normalize()
}
