package content

import (
	"sync"
	"time"
)

// Store owns the article collection for the lifetime of the process.
// Every mutation goes through the pure mutators and replaces the held
// snapshot wholesale; consumers receive deep copies and are notified of
// each replacement, so a snapshot handed out earlier is never mutated
// underneath them.
type Store struct {
	mu       sync.RWMutex
	articles []Article

	subMu sync.Mutex
	subs  []chan struct{}

	now func() time.Time
}

func NewStore(seed []Article) *Store {
	return &Store{
		articles: cloneArticles(seed),
		now:      time.Now,
	}
}

// Snapshot returns a deep copy of the current collection.
func (s *Store) Snapshot() []Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneArticles(s.articles)
}

// Get returns a deep copy of one article.
func (s *Store) Get(articleID int64) (Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.articles {
		if a.ID == articleID {
			return cloneArticle(a), true
		}
	}
	return Article{}, false
}

// Subscribe returns a channel that receives a signal after every
// mutation. The signal is coalesced: a slow consumer sees at least one
// notification for any burst of mutations.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Like increments the like count of one article.
func (s *Store) Like(articleID int64) error {
	return s.replace(func(articles []Article) ([]Article, error) {
		return IncrementLike(articles, articleID)
	})
}

// RecordView increments the view count of one article.
func (s *Store) RecordView(articleID int64) error {
	return s.replace(func(articles []Article) ([]Article, error) {
		return IncrementView(articles, articleID)
	})
}

// AddComment appends a reader comment to an article and returns the
// synthesized comment record.
func (s *Store) AddComment(articleID int64, author, body string) (Comment, error) {
	var created Comment
	err := s.replace(func(articles []Article) ([]Article, error) {
		next, comment, err := AddComment(articles, articleID, author, body, s.now())
		created = comment
		return next, err
	})
	return created, err
}

// ToggleCommentLike flips a viewer's like on one comment and returns the
// updated comment.
func (s *Store) ToggleCommentLike(articleID, commentID int64, viewerID string) (Comment, error) {
	var updated Comment
	err := s.replace(func(articles []Article) ([]Article, error) {
		out := make([]Article, len(articles))
		copy(out, articles)
		for i := range out {
			if out[i].ID != articleID {
				continue
			}
			next, err := ToggleCommentLike(out[i], commentID, viewerID)
			if err != nil {
				return nil, err
			}
			out[i] = next
			for _, c := range next.Comments {
				if c.ID == commentID {
					updated = c
				}
			}
			return out, nil
		}
		return nil, ErrArticleNotFound
	})
	return updated, err
}

// Upsert creates or updates an article from a draft and returns the
// resulting record.
func (s *Store) Upsert(draft ArticleDraft, existingID int64) (Article, error) {
	var saved Article
	err := s.replace(func(articles []Article) ([]Article, error) {
		next, article, err := UpsertArticle(articles, draft, existingID, s.now())
		saved = article
		return next, err
	})
	return saved, err
}

// Delete removes an article.
func (s *Store) Delete(articleID int64) error {
	return s.replace(func(articles []Article) ([]Article, error) {
		return DeleteArticle(articles, articleID)
	})
}

func (s *Store) replace(mutate func([]Article) ([]Article, error)) error {
	s.mu.Lock()
	next, err := mutate(s.articles)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.articles = next
	s.mu.Unlock()

	s.notify()
	return nil
}
