package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/seocrawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Crawls    seocrawl.SiteCrawlService
	Pages     seocrawl.PageCache
	Crawler   seocrawl.CrawlService
	Reviewer  seocrawl.ReviewService
	Committer seocrawl.CommitService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB            string        `name:"db" env:"SEOCRAWL_DB" help:"SQLite database path (default ~/.seocrawl/seocrawl.db)"`
	ExtractorURL  string        `name:"extractor-url" env:"SEOCRAWL_EXTRACTOR_URL" help:"Remote content extraction endpoint; pages are fetched locally when empty"`
	Concurrency   int           `short:"c" default:"4" help:"Concurrent page fetches (1-8)"`
	Timeout       time.Duration `default:"5m" help:"Deadline for a whole crawl"`
	RequireReview bool          `name:"require-review" help:"Hold crawled pages for review instead of caching them"`
	LogLevel      string        `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`

	Serve  ServeCmd  `cmd:"" help:"Serve the crawl, review and save API"`
	Crawl  CrawlCmd  `cmd:"" help:"Discover and crawl a website"`
	Review ReviewCmd `cmd:"" help:"Show discovered pages and record review decisions"`
	Save   SaveCmd   `cmd:"" help:"Commit review decisions to the page cache"`
	Export ExportCmd `cmd:"" help:"Write cached pages as Markdown files"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr           string   `default:":8080" env:"SEOCRAWL_ADDR" help:"Listen address"`
	AllowedOrigins []string `name:"cors-origin" help:"Allowed CORS origin (repeatable)"`
	RateLimit      int      `name:"rate-limit" default:"60" help:"Requests per minute per client IP (0 disables)"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	UserID   string `arg:"" name:"user-id" help:"User the crawl belongs to"`
	URL      string `arg:"" name:"url" help:"Website URL"`
	MaxPages int    `short:"n" name:"max-pages" default:"25" help:"Maximum pages to crawl"`
}

// ReviewCmd is the "review" subcommand.
type ReviewCmd struct {
	UserID  string   `arg:"" name:"user-id" help:"User whose crawl to review"`
	Approve []string `short:"a" help:"Approve a URL (repeatable)"`
	Exclude []string `short:"x" help:"Exclude a URL (repeatable)"`
	Add     []string `help:"Add a manual URL (repeatable)"`
}

// SaveCmd is the "save" subcommand.
type SaveCmd struct {
	UserID  string   `arg:"" name:"user-id" help:"User whose decisions to commit"`
	Approve []string `short:"a" help:"Approve a URL (repeatable)"`
	Exclude []string `short:"x" help:"Exclude a URL (repeatable)"`
	Add     []string `help:"Add a manual URL (repeatable)"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	UserID string `arg:"" name:"user-id" help:"User whose cached pages to export"`
	Dir    string `short:"o" default:"." type:"path" help:"Parent directory of the export"`
	Source string `help:"Only export pages from this source (site-crawl, manual, pivot-recrawl)"`
}
