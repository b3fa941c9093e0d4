package content

// Article and comment types shared by the store, the filter engine and the
// HTTP API. All text fields carry Khmer content as-is.

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type Article struct {
	ID       int64     `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Excerpt  string    `json:"excerpt" yaml:"excerpt"`
	Content  string    `json:"content" yaml:"content"`
	Category string    `json:"category" yaml:"category"`
	Image    string    `json:"image" yaml:"image"`
	Date     string    `json:"date" yaml:"date"`
	Author   string    `json:"author" yaml:"author"`
	Featured bool      `json:"featured" yaml:"featured"`
	Status   Status    `json:"status" yaml:"status"`
	Likes    int       `json:"likes" yaml:"likes"`
	Views    int       `json:"views" yaml:"views"`
	Comments []Comment `json:"comments" yaml:"comments"`
}

type Comment struct {
	ID        int64     `json:"id" yaml:"id"`
	ArticleID int64     `json:"articleId" yaml:"article_id"`
	Author    string    `json:"author" yaml:"author"`
	Content   string    `json:"content" yaml:"content"`
	Date      string    `json:"date" yaml:"date"`
	Likes     int       `json:"likes" yaml:"likes"`
	LikedBy   []string  `json:"-" yaml:"-"`
	Replies   []Comment `json:"replies,omitempty" yaml:"replies,omitempty"`
}

type Category struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	NameKh string `json:"nameKh" yaml:"name_kh"`
	Slug   string `json:"slug" yaml:"slug"`
	Icon   string `json:"icon" yaml:"icon"`
	Color  string `json:"color" yaml:"color"`
}

// ArticleDraft carries partial article data for create and update
// operations. Nil fields are left untouched on update and fall back to
// defaults on create.
type ArticleDraft struct {
	Title    *string `json:"title"`
	Excerpt  *string `json:"excerpt"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Image    *string `json:"image"`
	Date     *string `json:"date"`
	Author   *string `json:"author"`
	Featured *bool   `json:"featured"`
	Status   *Status `json:"status"`
}

func cloneComments(comments []Comment) []Comment {
	if comments == nil {
		return nil
	}
	out := make([]Comment, len(comments))
	copy(out, comments)
	for i := range out {
		if out[i].LikedBy != nil {
			likedBy := make([]string, len(out[i].LikedBy))
			copy(likedBy, out[i].LikedBy)
			out[i].LikedBy = likedBy
		}
		out[i].Replies = cloneComments(out[i].Replies)
	}
	return out
}

func cloneArticle(a Article) Article {
	a.Comments = cloneComments(a.Comments)
	return a
}

func cloneArticles(articles []Article) []Article {
	out := make([]Article, len(articles))
	for i, a := range articles {
		out[i] = cloneArticle(a)
	}
	return out
}
