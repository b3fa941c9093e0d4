package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nokorpost/portal/app/content"
	"github.com/nokorpost/portal/app/database"
)

const maxExcerptRunes = 200

// ContentStore is the part of the article store the refresher needs:
// creating draft articles from imported feed items.
type ContentStore interface {
	Upsert(draft content.ArticleDraft, existingID int64) (content.Article, error)
}

// Refresher polls active registry feeds and imports unseen items into
// the content store as draft articles for editorial review. Items are
// deduplicated by GUID for the lifetime of the process, matching the
// transient ownership of the rest of the portal state.
type Refresher struct {
	feedRepo   database.FeedRepository
	store      ContentStore
	parser     *Parser
	extractor  *ContentExtractor
	httpClient *http.Client
	userAgent  string
	interval   time.Duration

	mu   sync.Mutex
	seen map[string]bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRefresher(feedRepo database.FeedRepository, store ContentStore,
	httpClient *http.Client, userAgent string, interval time.Duration) *Refresher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Refresher{
		feedRepo:   feedRepo,
		store:      store,
		parser:     NewParser(),
		extractor:  NewContentExtractor(),
		httpClient: httpClient,
		userAgent:  userAgent,
		interval:   interval,
		seen:       make(map[string]bool),
	}
}

// Start launches the background polling loop. No-op when the interval
// is zero; manual refreshes through RefreshFeed still work.
func (r *Refresher) Start() {
	if r.interval <= 0 || r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.wg.Add(1)
	go r.run(ctx)
}

// Stop halts the polling loop and waits for it to exit.
func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	r.wg.Wait()
	r.cancel = nil
}

func (r *Refresher) run(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshActiveFeeds(ctx)
		}
	}
}

func (r *Refresher) refreshActiveFeeds(ctx context.Context) {
	feeds, err := r.feedRepo.ListFeeds()
	if err != nil {
		slog.Error("Failed to list feeds for refresh", "error", err)
		return
	}
	for _, f := range feeds {
		if !f.Active {
			continue
		}
		imported, err := r.RefreshFeed(ctx, f.ID)
		if err != nil {
			slog.Warn("Feed refresh failed", "feed", f.Title, "error", err)
			continue
		}
		if imported > 0 {
			slog.Info("Imported feed items", "feed", f.Title, "count", imported)
		}
	}
}

// RefreshFeed fetches one feed and imports unseen items as draft
// articles, reporting how many were imported. The registry's
// last-fetched timestamp is updated even when the remote fetch fails,
// so a broken source still shows when it was last tried.
func (r *Refresher) RefreshFeed(ctx context.Context, feedID int64) (int, error) {
	f, err := r.feedRepo.GetFeed(feedID)
	if err != nil {
		return 0, err
	}

	if err := r.feedRepo.MarkFetched(feedID, time.Now()); err != nil {
		return 0, err
	}

	data, err := r.fetch(ctx, f.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch feed: %w", err)
	}

	_, items, err := r.parser.Run(data)
	if err != nil {
		return 0, fmt.Errorf("failed to parse feed: %w", err)
	}

	imported := 0
	for _, item := range items {
		if item.GUID == "" || item.Title == "" {
			continue
		}
		r.mu.Lock()
		duplicate := r.seen[item.GUID]
		if !duplicate {
			r.seen[item.GUID] = true
		}
		r.mu.Unlock()
		if duplicate {
			continue
		}

		if _, err := r.store.Upsert(r.buildDraft(item, f.Category), 0); err != nil {
			return imported, fmt.Errorf("failed to import item %q: %w", item.Title, err)
		}
		imported++
	}

	return imported, nil
}

func (r *Refresher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func (r *Refresher) buildDraft(item Item, category string) content.ArticleDraft {
	body := item.Content
	if extracted, err := r.extractor.Run(item.Content); err == nil {
		body = extracted.Text
	} else if item.Description != "" {
		body = item.Description
	}

	excerpt := truncateRunes(plainText(item.Description), maxExcerptRunes)
	if excerpt == "" {
		excerpt = truncateRunes(plainText(body), maxExcerptRunes)
	}

	author := ""
	if len(item.Authors) > 0 {
		author = item.Authors[0]
	}

	draft := content.ArticleDraft{
		Title:    &item.Title,
		Excerpt:  &excerpt,
		Content:  &body,
		Category: &category,
	}
	if item.ImageURL != "" {
		draft.Image = &item.ImageURL
	}
	if author != "" {
		draft.Author = &author
	}
	return draft
}

func plainText(html string) string {
	if !strings.ContainsAny(html, "<>") {
		return strings.TrimSpace(html)
	}
	if extracted, err := NewContentExtractor().Run(html); err == nil {
		return extracted.Text
	}
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
