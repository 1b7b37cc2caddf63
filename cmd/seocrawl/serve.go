package main

import (
	"fmt"

	seohttp "github.com/fwojciec/seocrawl/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := seohttp.NewServer()
	s.Addr = c.Addr
	s.CrawlService = deps.Crawler
	s.ReviewService = deps.Reviewer
	s.CommitService = deps.Committer
	s.AllowedOrigins = c.AllowedOrigins
	s.RateLimit = c.RateLimit
	s.Logger = deps.Logger

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	<-deps.Ctx.Done()
	return s.Close()
}
