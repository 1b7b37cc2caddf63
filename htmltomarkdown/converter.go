// Package htmltomarkdown converts extracted page HTML into the Markdown text
// stored as a page's text content.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/seocrawl"
)

// Ensure Converter implements seocrawl.Converter at compile time.
var _ seocrawl.Converter = (*Converter)(nil)

// droppedTags never carry copy worth analysing.
var droppedTags = []string{"img", "svg", "iframe", "form", "button"}

var blankLines = regexp.MustCompile(`\n{3,}`)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	for _, tag := range droppedTags {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Runs of blank lines are
// collapsed and the result is trimmed.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", seocrawl.Errorf(seocrawl.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(blankLines.ReplaceAllString(result, "\n\n")), nil
}
