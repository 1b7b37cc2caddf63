package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/fwojciec/seocrawl/cmd/seocrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homePage = `<!DOCTYPE html>
<html><head><title>Acme Plumbing</title><meta name="description" content="Plumbers in the valley"></head>
<body>
<nav>
<a href="/">Home</a>
<a href="/services">Services</a>
<a href="/contact">Contact</a>
<a href="/blog/first-post">Blog</a>
</nav>
<main><h1>Acme Plumbing</h1><p>Family run plumbers serving the valley since 1998.</p></main>
</body></html>`

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		base := "http://" + r.Host
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
<url><loc>` + base + `/services</loc></url>
<url><loc>` + base + `/about/team/history</loc></url>
<url><loc>` + base + `/tag/pipes</loc></url>
</urlset>`))
	})
	page := func(title string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html><head><title>` + title + `</title></head><body><h1>` + title +
				`</h1><p>` + title + ` for homes and businesses across the valley.</p></body></html>`))
		}
	}
	mux.HandleFunc("/services", page("Services"))
	mux.HandleFunc("/contact", page("Contact"))
	mux.HandleFunc("/blog/first-post", page("First Post"))
	mux.HandleFunc("/about/team/history", page("History"))
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(homePage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	m := main.NewMain()
	m.DBPath = dbPath
	err := m.Run(context.Background(), args, stdout, &bytes.Buffer{})
	return stdout.String(), err
}

func TestMain_Run_CrawlReviewSave(t *testing.T) {
	t.Parallel()

	site := newSite(t)
	dbPath := filepath.Join(t.TempDir(), "seocrawl.db")

	out, err := run(t, dbPath, "crawl", "u1", site.URL, "--max-pages", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Crawled 3 of 3 pages")

	out, err = run(t, dbPath, "review", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: completed")
	assert.Contains(t, out, "[x] "+site.URL+"/services")
	assert.Contains(t, out, "[x] "+site.URL+"/contact")
	assert.NotContains(t, out, "/tag/pipes")
	assert.NotContains(t, out, "/about/team/history", "outranked by nav links")

	out, err = run(t, dbPath, "save", "u1", "--exclude", site.URL+"/contact", "--add", site.URL+"/about/team/history")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 1 of 1 pages, removed 1")

	out, err = run(t, dbPath, "review", "u1")
	require.NoError(t, err)
	assert.NotContains(t, out, site.URL+"/contact")
	assert.Contains(t, out, "1 manual URLs")
	assert.Equal(t, 1, strings.Count(out, "/services"))

	exportDir := t.TempDir()
	out, err = run(t, dbPath, "export", "u1", "-o", exportDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 pages")
	assert.FileExists(t, filepath.Join(exportDir, "u1", "services.md"))
	assert.FileExists(t, filepath.Join(exportDir, "u1", "about", "team", "history.md"))
}

func TestMain_Run_CrawlRequiresReview(t *testing.T) {
	t.Parallel()

	site := newSite(t)
	dbPath := filepath.Join(t.TempDir(), "seocrawl.db")

	_, err := run(t, dbPath, "--require-review", "crawl", "u1", site.URL, "-n", "2")
	require.NoError(t, err)

	out, err := run(t, dbPath, "review", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: awaiting-review")
	assert.Contains(t, out, "Awaiting review")

	out, err = run(t, dbPath, "save", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 2 of 2 pages")

	out, err = run(t, dbPath, "review", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: completed")
}

func TestMain_Run_InvalidURLLeavesNoCrawl(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seocrawl.db")

	_, err := run(t, dbPath, "crawl", "u1", "ftp://acme.com")
	require.Error(t, err)

	_, err = run(t, dbPath, "review", "u1")
	assert.Error(t, err)
}
