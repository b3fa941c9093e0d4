package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/nokorpost/portal/app/ai"
	"github.com/nokorpost/portal/app/content"
	"github.com/nokorpost/portal/app/database"
)

func NewHandler(store *content.Store, carousel *content.Carousel,
	feedRepo database.FeedRepository, refresher RefresherInterface,
	assist AssistInterface) *Handler {
	return &Handler{
		store:     store,
		carousel:  carousel,
		feedRepo:  feedRepo,
		refresher: refresher,
		assist:    assist,
	}
}

// GetArticles lists the reader-visible subset: published articles
// filtered by category selector and search term.
func (h *Handler) GetArticles(c *gin.Context) {
	selector := c.DefaultQuery("category", content.SelectorAll)
	search := c.Query("search")

	published := publishedOnly(h.store.Snapshot())
	visible := content.VisibleArticles(published, selector, search)

	c.JSON(http.StatusOK, gin.H{
		"articles": visible,
		"total":    len(visible),
		"category": selector,
		"search":   search,
	})
}

func (h *Handler) GetArticle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.store.RecordView(id); err != nil {
		notFound(c, err)
		return
	}

	article, _ := h.store.Get(id)
	c.JSON(http.StatusOK, article)
}

func (h *Handler) LikeArticle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.store.Like(id); err != nil {
		notFound(c, err)
		return
	}

	article, _ := h.store.Get(id)
	c.JSON(http.StatusOK, gin.H{"id": article.ID, "likes": article.Likes})
}

func (h *Handler) GetComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	article, found := h.store.Get(id)
	if !found {
		notFound(c, content.ErrArticleNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articleId": article.ID,
		"comments":  article.Comments,
		"total":     len(article.Comments),
	})
}

func (h *Handler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "author and content are required"})
		return
	}

	comment, err := h.store.AddComment(id, req.Author, req.Content)
	if err != nil {
		notFound(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) ToggleCommentLike(c *gin.Context) {
	articleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "commentId")
	if !ok {
		return
	}

	viewerID := c.GetString("viewerID")

	comment, err := h.store.ToggleCommentLike(articleID, commentID, viewerID)
	if err != nil {
		notFound(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    comment.ID,
		"likes": comment.Likes,
		"liked": lo.Contains(comment.LikedBy, viewerID),
	})
}

func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": content.Categories()})
}

// GetHero returns the featured subset with the carousel position.
func (h *Handler) GetHero(c *gin.Context) {
	featured := content.FeaturedArticles(publishedOnly(h.store.Snapshot()))

	c.JSON(http.StatusOK, gin.H{
		"featured": featured,
		"index":    h.carousel.Index(),
		"count":    h.carousel.Count(),
	})
}

func (h *Handler) HeroNext(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"index": h.carousel.Next()})
}

func (h *Handler) HeroPrev(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"index": h.carousel.Prev()})
}

func (h *Handler) HeroJump(c *gin.Context) {
	target, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide index"})
		return
	}

	index, ok := h.carousel.Jump(target)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slide index out of range", "index": index})
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"articles":  len(h.store.Snapshot()),
	}

	if feedCount, err := h.feedRepo.GetFeedCount(); err == nil {
		health["feeds"] = feedCount
	}

	c.JSON(http.StatusOK, health)
}

// GetStats aggregates the dashboard numbers.
func (h *Handler) GetStats(c *gin.Context) {
	articles := h.store.Snapshot()

	published := publishedOnly(articles)
	recent := articles
	if len(recent) > 5 {
		recent = recent[:5]
	}

	c.JSON(http.StatusOK, gin.H{
		"totalArticles": len(articles),
		"published":     len(published),
		"totalViews":    lo.SumBy(articles, func(a content.Article) int { return a.Views }),
		"totalLikes":    lo.SumBy(articles, func(a content.Article) int { return a.Likes }),
		"totalComments": lo.SumBy(articles, func(a content.Article) int { return len(a.Comments) }),
		"recent":        recent,
	})
}

// AdminListArticles lists every article regardless of status, with an
// optional status filter.
func (h *Handler) AdminListArticles(c *gin.Context) {
	articles := h.store.Snapshot()

	if status := c.Query("status"); status != "" && status != "all" {
		if !content.Status(status).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		articles = lo.Filter(articles, func(a content.Article, _ int) bool {
			return a.Status == content.Status(status)
		})
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles, "total": len(articles)})
}

func (h *Handler) AdminCreateArticle(c *gin.Context) {
	var draft content.ArticleDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article payload"})
		return
	}
	if draft.Title == nil || *draft.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if draft.Status != nil && !draft.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	article, err := h.store.Upsert(draft, 0)
	if err != nil {
		slog.Error("Failed to create article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create article"})
		return
	}

	c.JSON(http.StatusCreated, article)
}

func (h *Handler) AdminUpdateArticle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var draft content.ArticleDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article payload"})
		return
	}
	if draft.Status != nil && !draft.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	article, err := h.store.Upsert(draft, id)
	if err != nil {
		notFound(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) AdminDeleteArticle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.store.Delete(id); err != nil {
		notFound(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) AdminListFeeds(c *gin.Context) {
	feeds, err := h.feedRepo.ListFeeds()
	if err != nil {
		slog.Error("Database error", "operation", "list_feeds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list feeds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feeds": feeds, "total": len(feeds)})
}

func (h *Handler) AdminAddFeed(c *gin.Context) {
	var req feedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and a valid url are required"})
		return
	}

	feed, err := h.feedRepo.AddFeed(req.Title, req.URL, req.Category)
	if err != nil {
		slog.Error("Database error", "operation", "add_feed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add feed"})
		return
	}

	c.JSON(http.StatusCreated, feed)
}

func (h *Handler) AdminDeleteFeed(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.feedRepo.DeleteFeed(id); err != nil {
		notFound(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) AdminToggleFeed(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	feed, err := h.feedRepo.ToggleActive(id)
	if err != nil {
		notFound(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *Handler) AdminRefreshFeed(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	imported, err := h.refresher.RefreshFeed(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrFeedNotFound) {
			notFound(c, err)
			return
		}
		// The source being down is not the caller's fault; the fetch
		// attempt is still recorded on the feed.
		slog.Warn("Feed refresh failed", "feed_id", id, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "feed source unavailable", "imported": imported})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

func (h *Handler) AssistStatus(c *gin.Context) {
	connected := h.assist.CheckConnection(c.Request.Context())

	status := "offline"
	if connected {
		status = "connected"
	}
	c.JSON(http.StatusOK, gin.H{"connected": connected, "status": status})
}

func (h *Handler) AssistSummarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	token := h.gates.summarize.Acquire()
	result := h.assist.Summarize(c.Request.Context(), ai.SummarizeRequest{
		Content:   req.Content,
		Language:  req.Language,
		MaxLength: req.MaxLength,
		Style:     req.Style,
	})
	if !h.gates.summarize.Current(token) {
		superseded(c)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) AssistTranslate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text, from and to are required"})
		return
	}

	token := h.gates.translate.Acquire()
	translated := h.assist.Translate(c.Request.Context(), req.Text, req.From, req.To)
	if !h.gates.translate.Current(token) {
		superseded(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"translated": translated})
}

func (h *Handler) AssistAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	token := h.gates.analyze.Acquire()
	analysis := h.assist.Analyze(c.Request.Context(), req.Content)
	if !h.gates.analyze.Current(token) {
		superseded(c)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) AssistSuggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}

	token := h.gates.suggest.Acquire()
	titles := h.assist.SuggestTitles(c.Request.Context(), req.Category, req.Count)
	if !h.gates.suggest.Current(token) {
		superseded(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"titles": titles})
}

func publishedOnly(articles []content.Article) []content.Article {
	return lo.Filter(articles, func(a content.Article, _ int) bool {
		return a.Status == content.StatusPublished
	})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context, err error) {
	c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
}

func superseded(c *gin.Context) {
	c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer request"})
}
