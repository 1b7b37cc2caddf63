package mock

import "github.com/fwojciec/seocrawl"

var _ seocrawl.Converter = (*Converter)(nil)

// Converter is a mock implementation of seocrawl.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
