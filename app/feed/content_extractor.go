package feed

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-shiori/go-readability"
)

// ContentExtractor pulls the readable body out of an item's HTML so
// imported drafts carry clean text instead of markup.
type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Extracted is the readable part of an item's HTML.
type Extracted struct {
	Title string
	Text  string
}

func (e *ContentExtractor) Run(html string) (*Extracted, error) {
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil, fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(text))

	return &Extracted{Title: article.Title, Text: text}, nil
}
