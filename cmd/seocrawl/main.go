package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/seocrawl"
	"github.com/fwojciec/seocrawl/cache"
	"github.com/fwojciec/seocrawl/crawl"
	"github.com/fwojciec/seocrawl/goquery"
	"github.com/fwojciec/seocrawl/htmltomarkdown"
	seohttp "github.com/fwojciec/seocrawl/http"
	"github.com/fwojciec/seocrawl/readability"
	seoslog "github.com/fwojciec/seocrawl/slog"
	"github.com/fwojciec/seocrawl/sqlite"
	"github.com/fwojciec/seocrawl/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db is not given. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("seocrawl"),
		kong.Description("Discover, crawl and review the pages of a business website."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'seocrawl --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(stderr, cli.LogLevel)
	if err != nil {
		return err
	}
	deps.Logger = logger

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = m.DBPath
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SEOCRAWL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	m.wire(cli, deps)

	return kongCtx.Run(deps)
}

// wire builds the services shared by every command.
func (m *Main) wire(cli *CLI, deps *Dependencies) {
	logger := deps.Logger

	crawls := sqlite.NewSiteCrawlService(m.DB)
	onboarding := sqlite.NewOnboardingService(m.DB)
	pages := seoslog.NewLoggingPageCache(
		cache.NewDualWrite(sqlite.NewUserPageCache(m.DB), sqlite.NewLegacyPageCache(m.DB)),
		logger,
	)
	extractor := seoslog.NewLoggingContentExtractor(newContentExtractor(cli.ExtractorURL, logger), logger)
	sitemaps := seoslog.NewLoggingSitemapService(seohttp.NewSitemapService(nil, logger), logger)
	concurrency := crawl.ClampConcurrency(cli.Concurrency)

	deps.Crawls = crawls
	deps.Pages = pages
	deps.Crawler = &crawl.Crawler{
		Discoverer: &crawl.Discoverer{
			Sitemaps:  sitemaps,
			Extractor: extractor,
			Logger:    logger,
		},
		Executor: &crawl.Executor{
			Extractor:     extractor,
			Pages:         pages,
			Crawls:        crawls,
			Onboarding:    onboarding,
			Logger:        logger,
			Concurrency:   concurrency,
			RetryDelays:   crawl.DefaultRetryDelays(),
			RequireReview: cli.RequireReview,
		},
		Crawls:     crawls,
		Onboarding: onboarding,
		Logger:     logger,
		Timeout:    cli.Timeout,
	}
	deps.Reviewer = &crawl.Reviewer{
		Crawls: crawls,
		Pages:  pages,
	}
	deps.Committer = &crawl.Committer{
		Extractor:   extractor,
		Pages:       pages,
		Crawls:      crawls,
		Onboarding:  onboarding,
		Logger:      logger,
		Concurrency: concurrency,
		RetryDelays: crawl.DefaultRetryDelays(),
	}
}

// newContentExtractor returns the remote extraction service client when an
// endpoint is configured and the local fetch-and-extract pipeline otherwise.
func newContentExtractor(endpoint string, logger *slog.Logger) seocrawl.ContentExtractor {
	if endpoint != "" {
		return seohttp.NewExtractorClient(endpoint, nil)
	}
	return &crawl.PageExtractor{
		Fetcher: seoslog.NewLoggingFetcher(seohttp.NewFetcher(), logger),
		Parser:  goquery.NewParser(),
		Extractors: []seocrawl.Extractor{
			trafilatura.NewExtractor(),
			readability.NewExtractor(),
		},
		Converter: htmltomarkdown.NewConverter(),
	}
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "seocrawl.db"
	}
	dir := filepath.Join(home, ".seocrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "seocrawl.db")
}
