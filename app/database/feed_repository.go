package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrFeedNotFound = errors.New("feed not found")

var _ FeedRepository = (*feedRepository)(nil)

type feedRepository struct {
	db *DB
}

func NewFeedRepository(db *DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) ListFeeds() ([]Feed, error) {
	rows, err := r.db.Query(`
		SELECT id, title, url, category, last_fetched, active, created_at, updated_at
		FROM feeds
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	defer rows.Close()

	var feeds []Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, *feed)
	}
	return feeds, rows.Err()
}

func (r *feedRepository) GetFeed(id int64) (*Feed, error) {
	row := r.db.QueryRow(`
		SELECT id, title, url, category, last_fetched, active, created_at, updated_at
		FROM feeds
		WHERE id = ?
	`, id)

	feed, err := scanFeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedNotFound
	}
	return feed, err
}

func (r *feedRepository) GetFeedCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM feeds`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feeds: %w", err)
	}
	return count, nil
}

func (r *feedRepository) AddFeed(title, url, category string) (*Feed, error) {
	result, err := r.db.Exec(`
		INSERT INTO feeds (title, url, category, active)
		VALUES (?, ?, ?, 1)
	`, title, url, category)
	if err != nil {
		return nil, fmt.Errorf("failed to add feed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return r.GetFeed(id)
}

func (r *feedRepository) DeleteFeed(id int64) error {
	result, err := r.db.Exec(`DELETE FROM feeds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete feed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrFeedNotFound
	}
	return nil
}

func (r *feedRepository) ToggleActive(id int64) (*Feed, error) {
	result, err := r.db.Exec(`
		UPDATE feeds
		SET active = NOT active, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle feed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrFeedNotFound
	}
	return r.GetFeed(id)
}

func (r *feedRepository) MarkFetched(id int64, fetchedAt time.Time) error {
	result, err := r.db.Exec(`
		UPDATE feeds
		SET last_fetched = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, fetchedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark feed fetched: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrFeedNotFound
	}
	return nil
}

// SeedFeeds registers fixture feeds, skipping URLs already present, and
// reports how many were inserted.
func (r *feedRepository) SeedFeeds(feeds []Feed) (int, error) {
	inserted := 0
	for _, feed := range feeds {
		result, err := r.db.Exec(`
			INSERT INTO feeds (title, url, category, active)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (url) DO NOTHING
		`, feed.Title, feed.URL, feed.Category, feed.Active)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed feed %q: %w", feed.Title, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to read affected rows: %w", err)
		}
		inserted += int(affected)
	}
	return inserted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (*Feed, error) {
	var feed Feed
	var lastFetched sql.NullTime
	err := row.Scan(&feed.ID, &feed.Title, &feed.URL, &feed.Category,
		&lastFetched, &feed.Active, &feed.CreatedAt, &feed.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan feed: %w", err)
	}
	if lastFetched.Valid {
		t := lastFetched.Time
		feed.LastFetched = &t
	}
	return &feed, nil
}
