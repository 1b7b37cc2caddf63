// Package fs exports cached pages as Markdown files.
package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/seocrawl"
	"gopkg.in/yaml.v3"
)

// URLToPath converts a page URL to a relative file path.
// Example: https://acme.com/services/drains → services/drains.md
// Dot segments are resolved so the result never leaves the export directory.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", seocrawl.Errorf(seocrawl.EINVALID, "invalid page URL: %v", err)
	}

	p := path.Clean("/" + u.Path)
	if p == "/" {
		return "index.md", nil
	}
	p = strings.TrimPrefix(p, "/")

	if strings.HasSuffix(u.Path, "/") {
		return p + "/index.md", nil
	}
	return p + ".md", nil
}

// frontmatter is the YAML header written above each page.
type frontmatter struct {
	URL         string    `yaml:"url"`
	Title       string    `yaml:"title,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Source      string    `yaml:"source,omitempty"`
	NavLink     bool      `yaml:"nav_link,omitempty"`
	CrawlOrder  *int      `yaml:"crawl_order,omitempty"`
	Tags        []string  `yaml:"tags,omitempty"`
	Headings    []string  `yaml:"headings,omitempty"`
	Cached      time.Time `yaml:"cached,omitempty"`
}

// FormatPage formats a cached page as Markdown with YAML frontmatter.
func FormatPage(page *seocrawl.CachedPage) (string, error) {
	fm := frontmatter{
		URL:         page.PageURL,
		Title:       page.Title,
		Description: page.MetaDescription,
		Source:      page.Source,
		NavLink:     page.IsNavLink,
		CrawlOrder:  page.CrawlOrder,
		Tags:        page.CrawlTags,
		Cached:      page.CachedAt,
	}
	for _, h := range page.Headings {
		fm.Headings = append(fm.Headings, strings.Repeat("#", h.Level)+" "+h.Text)
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(page.TextContent)
	if !strings.HasSuffix(page.TextContent, "\n") {
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Exporter writes pages into baseDir/name. Files are written to
// baseDir/name.tmp first and swapped in once every page is written, so a
// failed export leaves the previous one intact.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates a new Exporter.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{baseDir: baseDir, name: name}
}

// Dir returns the final export directory.
func (e *Exporter) Dir() string {
	return filepath.Join(e.baseDir, e.name)
}

// isPlainName reports whether name is a single path element that stays
// inside the base directory.
func isPlainName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

// Export writes pages and returns the number of files written. Pages that
// map to the same file are written once, first page wins.
func (e *Exporter) Export(ctx context.Context, pages []*seocrawl.CachedPage) (int, error) {
	if !isPlainName(e.name) {
		return 0, seocrawl.Errorf(seocrawl.EINVALID, "invalid export name %q", e.name)
	}
	if err := os.RemoveAll(e.tempDir()); err != nil {
		return 0, err
	}

	n, err := e.writeAll(ctx, pages)
	if err != nil {
		_ = os.RemoveAll(e.tempDir())
		return 0, err
	}

	if err := os.RemoveAll(e.Dir()); err != nil {
		return 0, err
	}
	if err := os.Rename(e.tempDir(), e.Dir()); err != nil {
		return 0, err
	}
	return n, nil
}

func (e *Exporter) writeAll(ctx context.Context, pages []*seocrawl.CachedPage) (int, error) {
	if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
		return 0, err
	}

	written := make(map[string]bool)
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		relPath, err := URLToPath(page.PageURL)
		if err != nil {
			return 0, err
		}
		if written[relPath] {
			continue
		}

		content, err := FormatPage(page)
		if err != nil {
			return 0, err
		}

		fullPath := filepath.Join(e.tempDir(), relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return 0, err
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			return 0, err
		}
		written[relPath] = true
	}
	return len(written), nil
}
