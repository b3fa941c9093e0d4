package database

import "time"

// FeedRepository handles registry operations for RSS sources.
type FeedRepository interface {
	ListFeeds() ([]Feed, error)
	GetFeed(id int64) (*Feed, error)
	GetFeedCount() (int, error)

	AddFeed(title, url, category string) (*Feed, error)
	DeleteFeed(id int64) error
	ToggleActive(id int64) (*Feed, error)
	MarkFetched(id int64, fetchedAt time.Time) error

	SeedFeeds(feeds []Feed) (int, error)
}
