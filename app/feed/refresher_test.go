package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nokorpost/portal/app/content"
	"github.com/nokorpost/portal/app/database"
)

type fakeFeedRepo struct {
	feeds   map[int64]*database.Feed
	fetched map[int64]time.Time
}

func newFakeFeedRepo(feeds ...database.Feed) *fakeFeedRepo {
	repo := &fakeFeedRepo{
		feeds:   make(map[int64]*database.Feed),
		fetched: make(map[int64]time.Time),
	}
	for i := range feeds {
		f := feeds[i]
		repo.feeds[f.ID] = &f
	}
	return repo
}

func (r *fakeFeedRepo) ListFeeds() ([]database.Feed, error) {
	var out []database.Feed
	for _, f := range r.feeds {
		out = append(out, *f)
	}
	return out, nil
}

func (r *fakeFeedRepo) GetFeed(id int64) (*database.Feed, error) {
	f, ok := r.feeds[id]
	if !ok {
		return nil, database.ErrFeedNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFeedRepo) GetFeedCount() (int, error) { return len(r.feeds), nil }

func (r *fakeFeedRepo) AddFeed(title, url, category string) (*database.Feed, error) {
	return nil, nil
}

func (r *fakeFeedRepo) DeleteFeed(id int64) error { return nil }

func (r *fakeFeedRepo) ToggleActive(id int64) (*database.Feed, error) { return nil, nil }

func (r *fakeFeedRepo) MarkFetched(id int64, fetchedAt time.Time) error {
	if _, ok := r.feeds[id]; !ok {
		return database.ErrFeedNotFound
	}
	r.fetched[id] = fetchedAt
	return nil
}

func (r *fakeFeedRepo) SeedFeeds(feeds []database.Feed) (int, error) { return 0, nil }

func TestRefresher_ImportsDrafts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	repo := newFakeFeedRepo(database.Feed{ID: 1, Title: "Test", URL: server.URL, Category: "បច្ចេកវិទ្យា", Active: true})
	store := content.NewStore(nil)
	refresher := NewRefresher(repo, store, server.Client(), "Nokor Post/1.0", 0)

	imported, err := refresher.RefreshFeed(context.Background(), 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if imported != 2 {
		t.Fatalf("Expected 2 imported items, got %d", imported)
	}

	articles := store.Snapshot()
	if len(articles) != 2 {
		t.Fatalf("Expected 2 draft articles, got %d", len(articles))
	}
	for _, a := range articles {
		if a.Status != content.StatusDraft {
			t.Errorf("Imported articles must be drafts, got %q", a.Status)
		}
		if a.Category != "បច្ចេកវិទ្យា" {
			t.Errorf("Imported articles must carry the feed category, got %q", a.Category)
		}
	}

	if _, ok := repo.fetched[1]; !ok {
		t.Errorf("Refresh must update the last-fetched timestamp")
	}
}

func TestRefresher_DeduplicatesByGUID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	repo := newFakeFeedRepo(database.Feed{ID: 1, Title: "Test", URL: server.URL, Active: true})
	store := content.NewStore(nil)
	refresher := NewRefresher(repo, store, server.Client(), "", 0)

	if _, err := refresher.RefreshFeed(context.Background(), 1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	imported, err := refresher.RefreshFeed(context.Background(), 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if imported != 0 {
		t.Errorf("A second refresh must import nothing, got %d", imported)
	}
}

func TestRefresher_FetchFailureStillMarksFetched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	repo := newFakeFeedRepo(database.Feed{ID: 1, Title: "Broken", URL: server.URL, Active: true})
	store := content.NewStore(nil)
	refresher := NewRefresher(repo, store, server.Client(), "", 0)

	if _, err := refresher.RefreshFeed(context.Background(), 1); err == nil {
		t.Errorf("Expected an error for a failing source")
	}
	if _, ok := repo.fetched[1]; !ok {
		t.Errorf("A failing source must still record the fetch attempt")
	}
}

func TestRefresher_UnknownFeed(t *testing.T) {
	repo := newFakeFeedRepo()
	refresher := NewRefresher(repo, content.NewStore(nil), nil, "", 0)

	if _, err := refresher.RefreshFeed(context.Background(), 42); err == nil {
		t.Errorf("Expected an error for an unknown feed")
	}
}
