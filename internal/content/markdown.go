package content

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// MarkdownStage converts HTML bodies to markdown
type MarkdownStage struct {
	conv *md.Converter
}

// NewMarkdownStage creates the HTML to markdown stage. Links keep the urls
// found in the HTML; relative attachment names must stay relative.
func NewMarkdownStage() *MarkdownStage {
	return &MarkdownStage{conv: md.NewConverter("", true, nil)}
}

// Name returns the stage name
func (s *MarkdownStage) Name() string {
	return "markdown"
}

// Process converts the document body if it is still HTML
func (s *MarkdownStage) Process(_ context.Context, doc *Document) error {
	if doc.Format != HTML {
		return nil
	}
	out, err := s.conv.ConvertString(doc.Body)
	if err != nil {
		return fmt.Errorf("failed to convert '%s' to markdown: %w", doc.Item.ItemTitle(), err)
	}
	doc.Body = out
	doc.Format = Markdown
	return nil
}

// HeadingStage puts the item title on top as a level one heading
type HeadingStage struct{}

// Name returns the stage name
func (HeadingStage) Name() string {
	return "heading"
}

// Process prepends the heading
func (HeadingStage) Process(_ context.Context, doc *Document) error {
	body := strings.TrimSpace(doc.Body)
	heading := "# " + strings.TrimSpace(doc.Item.ItemTitle()) + "\n"
	if body == "" {
		doc.Body = heading
		return nil
	}
	doc.Body = heading + "\n" + body + "\n"
	return nil
}
