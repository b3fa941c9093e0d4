package feed

import (
	"time"
)

// Item is a normalized entry pulled from a remote RSS/Atom feed before
// it is imported into the content store as a draft article.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	ImageURL    string
	PublishedAt time.Time
	Authors     []string
	Categories  []string
}

// Metadata describes the remote feed itself.
type Metadata struct {
	Title       string
	Link        string
	Description string
	ImageURL    string
	Language    string
}
