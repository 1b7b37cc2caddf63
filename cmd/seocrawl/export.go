package main

import (
	"fmt"

	"github.com/fwojciec/seocrawl"
	"github.com/fwojciec/seocrawl/fs"
)

// Run executes the export command. Pages are written to <dir>/<user-id>.
func (c *ExportCmd) Run(deps *Dependencies) error {
	var filter seocrawl.PageFilter
	if c.Source != "" {
		filter.Source = &c.Source
	}

	pages, err := deps.Pages.FindCachedPages(deps.Ctx, c.UserID, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seocrawl.ErrorMessage(err))
		return err
	}
	if len(pages) == 0 {
		fmt.Fprintln(deps.Stdout, "No cached pages found. Use 'seocrawl crawl' to create some.")
		return nil
	}

	exporter := fs.NewExporter(c.Dir, c.UserID)
	n, err := exporter.Export(deps.Ctx, pages)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seocrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d pages to %s\n", n, exporter.Dir())
	return nil
}
