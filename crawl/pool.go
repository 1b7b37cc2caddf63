package crawl

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Worker pool bounds.
const (
	DefaultConcurrency = 4
	MaxConcurrency     = 8
)

// ClampConcurrency returns n limited to 1..MaxConcurrency, using
// DefaultConcurrency when n is not positive.
func ClampConcurrency(n int) int {
	switch {
	case n <= 0:
		return DefaultConcurrency
	case n > MaxConcurrency:
		return MaxConcurrency
	}
	return n
}

// runBounded calls fn for every index in [0, n) on at most limit
// goroutines. A failing call never stops the others; the returned slice
// holds each call's error at its index.
func runBounded(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(ClampConcurrency(limit))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}
