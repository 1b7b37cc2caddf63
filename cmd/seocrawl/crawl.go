package main

import (
	"fmt"

	"github.com/fwojciec/seocrawl"
	"github.com/fwojciec/seocrawl/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	result, err := deps.Crawler.Crawl(deps.Ctx, seocrawl.CrawlRequest{
		UserID:     c.UserID,
		WebsiteURL: c.URL,
		MaxPages:   c.MaxPages,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seocrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawled %d of %d pages\n", result.Processed, result.Attempted)
	printPageErrors(deps, result.Errors)
	return nil
}

func printPageErrors(deps *Dependencies, errs []seocrawl.PageError) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(deps.Stdout, "%d failed:\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(deps.Stdout, "  ✗ %s: %s\n", crawl.TruncateURL(e.URL, urlWidth), e.Message)
	}
}

// urlWidth is the column width URLs are truncated to.
const urlWidth = 60
