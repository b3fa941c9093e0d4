package database

import (
	"time"
)

// Feed is an RSS source registered in the registry.
type Feed struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Category    string     `json:"category"`
	LastFetched *time.Time `json:"lastFetched"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}
