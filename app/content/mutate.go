package content

import (
	"errors"
	"time"

	"github.com/samber/lo"
)

// Engagement mutators. Each takes the current collection and returns a
// fresh one, never mutating its argument. Records that are not touched
// keep their exact field values (and backing comment slices), so callers
// can rely on equality shortcuts when diffing snapshots. A missing target
// is reported as an error instead of a silent no-op.

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// IncrementLike raises the like count of the matching article by exactly 1.
func IncrementLike(articles []Article, articleID int64) ([]Article, error) {
	return bumpCounter(articles, articleID, func(a *Article) { a.Likes++ })
}

// IncrementView raises the view count of the matching article by exactly 1.
func IncrementView(articles []Article, articleID int64) ([]Article, error) {
	return bumpCounter(articles, articleID, func(a *Article) { a.Views++ })
}

func bumpCounter(articles []Article, articleID int64, bump func(*Article)) ([]Article, error) {
	out := make([]Article, len(articles))
	copy(out, articles)
	for i := range out {
		if out[i].ID == articleID {
			bump(&out[i])
			return out, nil
		}
	}
	return nil, ErrArticleNotFound
}

// AddComment synthesizes a full comment (fresh identifier, locale-formatted
// date, zero likes) and appends it to the end of the matching article's
// comment sequence. Input is assumed validated at the API boundary.
func AddComment(articles []Article, articleID int64, author, body string, now time.Time) ([]Article, Comment, error) {
	out := make([]Article, len(articles))
	copy(out, articles)
	for i := range out {
		if out[i].ID != articleID {
			continue
		}
		comment := Comment{
			ID:        nextCommentID(articles),
			ArticleID: articleID,
			Author:    author,
			Content:   body,
			Date:      FormatKhmerDate(now),
			Likes:     0,
		}
		comments := make([]Comment, len(out[i].Comments), len(out[i].Comments)+1)
		copy(comments, out[i].Comments)
		out[i].Comments = append(comments, comment)
		return out, comment, nil
	}
	return nil, Comment{}, ErrArticleNotFound
}

// ToggleCommentLike flips the calling viewer's like on one comment within
// an article. The LikedBy set is the single source of truth: the displayed
// like count is adjusted from it, so a second toggle by the same viewer
// un-likes without drift.
func ToggleCommentLike(article Article, commentID int64, viewerID string) (Article, error) {
	comments := cloneComments(article.Comments)
	for i := range comments {
		if comments[i].ID != commentID {
			continue
		}
		if lo.Contains(comments[i].LikedBy, viewerID) {
			comments[i].LikedBy = lo.Without(comments[i].LikedBy, viewerID)
			comments[i].Likes--
		} else {
			comments[i].LikedBy = append(comments[i].LikedBy, viewerID)
			comments[i].Likes++
		}
		article.Comments = comments
		return article, nil
	}
	return Article{}, ErrCommentNotFound
}

// UpsertArticle applies a draft. With existingID != 0 the matching
// article's provided fields are replaced and everything else is left
// untouched. With existingID == 0 a new article is created with a fresh
// identifier, draft status, zero counters, no comments and the current
// date, and placed at the head of the collection.
func UpsertArticle(articles []Article, draft ArticleDraft, existingID int64, now time.Time) ([]Article, Article, error) {
	if existingID != 0 {
		out := make([]Article, len(articles))
		copy(out, articles)
		for i := range out {
			if out[i].ID == existingID {
				applyDraft(&out[i], draft)
				return out, out[i], nil
			}
		}
		return nil, Article{}, ErrArticleNotFound
	}

	created := Article{
		ID:       nextArticleID(articles),
		Date:     FormatKhmerDate(now),
		Status:   StatusDraft,
		Comments: []Comment{},
	}
	applyDraft(&created, draft)

	out := make([]Article, 0, len(articles)+1)
	out = append(out, created)
	out = append(out, articles...)
	return out, created, nil
}

// DeleteArticle removes the matching article from the collection.
func DeleteArticle(articles []Article, articleID int64) ([]Article, error) {
	out := make([]Article, 0, len(articles))
	found := false
	for _, a := range articles {
		if a.ID == articleID {
			found = true
			continue
		}
		out = append(out, a)
	}
	if !found {
		return nil, ErrArticleNotFound
	}
	return out, nil
}

func applyDraft(a *Article, draft ArticleDraft) {
	if draft.Title != nil {
		a.Title = *draft.Title
	}
	if draft.Excerpt != nil {
		a.Excerpt = *draft.Excerpt
	}
	if draft.Content != nil {
		a.Content = *draft.Content
	}
	if draft.Category != nil {
		a.Category = *draft.Category
	}
	if draft.Image != nil {
		a.Image = *draft.Image
	}
	if draft.Date != nil {
		a.Date = *draft.Date
	}
	if draft.Author != nil {
		a.Author = *draft.Author
	}
	if draft.Featured != nil {
		a.Featured = *draft.Featured
	}
	if draft.Status != nil {
		a.Status = *draft.Status
	}
}

func nextArticleID(articles []Article) int64 {
	var maxID int64
	for _, a := range articles {
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	return maxID + 1
}

func nextCommentID(articles []Article) int64 {
	var maxID int64
	var walk func(comments []Comment)
	walk = func(comments []Comment) {
		for _, c := range comments {
			if c.ID > maxID {
				maxID = c.ID
			}
			walk(c.Replies)
		}
	}
	for _, a := range articles {
		walk(a.Comments)
	}
	return maxID + 1
}
