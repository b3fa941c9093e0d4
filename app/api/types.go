package api

import (
	"context"

	"github.com/nokorpost/portal/app/ai"
	"github.com/nokorpost/portal/app/content"
	"github.com/nokorpost/portal/app/database"
	"github.com/nokorpost/portal/app/feed"
)

type RefresherInterface interface {
	RefreshFeed(ctx context.Context, feedID int64) (int, error)
}

var _ RefresherInterface = (*feed.Refresher)(nil)

type AssistInterface interface {
	CheckConnection(ctx context.Context) bool
	Summarize(ctx context.Context, req ai.SummarizeRequest) ai.SummarizeResult
	Translate(ctx context.Context, text, from, to string) string
	Analyze(ctx context.Context, content string) ai.Analysis
	SuggestTitles(ctx context.Context, category string, count int) []string
}

var _ AssistInterface = (*ai.Client)(nil)

// assistGates holds one stale-response gate per assist operation, so a
// slow reply to an earlier request is dropped instead of overwriting
// the outcome of a later one.
type assistGates struct {
	summarize ai.Gate
	translate ai.Gate
	analyze   ai.Gate
	suggest   ai.Gate
}

type Handler struct {
	store     *content.Store
	carousel  *content.Carousel
	feedRepo  database.FeedRepository
	refresher RefresherInterface
	assist    AssistInterface
	gates     assistGates
}

type commentRequest struct {
	Author  string `json:"author" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type feedRequest struct {
	Title    string `json:"title" binding:"required"`
	URL      string `json:"url" binding:"required,url"`
	Category string `json:"category"`
}

type summarizeRequest struct {
	Content   string `json:"content" binding:"required"`
	Language  string `json:"language"`
	MaxLength int    `json:"maxLength"`
	Style     string `json:"style"`
}

type translateRequest struct {
	Text string `json:"text" binding:"required"`
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type analyzeRequest struct {
	Content string `json:"content" binding:"required"`
}

type suggestRequest struct {
	Category string `json:"category" binding:"required"`
	Count    int    `json:"count"`
}
