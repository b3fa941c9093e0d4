package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nokorpost/portal/app/ai"
	"github.com/nokorpost/portal/app/content"
	"github.com/nokorpost/portal/app/database"
)

const testAPIKey = "test-secret"

type fakeRefresher struct {
	imported int
	err      error
	calls    []int64
}

func (f *fakeRefresher) RefreshFeed(_ context.Context, feedID int64) (int, error) {
	f.calls = append(f.calls, feedID)
	return f.imported, f.err
}

type fakeAssist struct {
	connected bool
}

func (f *fakeAssist) CheckConnection(context.Context) bool { return f.connected }

func (f *fakeAssist) Summarize(_ context.Context, req ai.SummarizeRequest) ai.SummarizeResult {
	return ai.SummarizeResult{Summary: "summary of " + req.Content, Confidence: 90}
}

func (f *fakeAssist) Translate(_ context.Context, text, _, _ string) string {
	return "translated " + text
}

func (f *fakeAssist) Analyze(_ context.Context, body string) ai.Analysis {
	return ai.Analysis{WordCount: len(strings.Fields(body)), ReadabilityScore: 7}
}

func (f *fakeAssist) SuggestTitles(_ context.Context, category string, _ int) []string {
	return []string{"title for " + category}
}

func testArticles() []content.Article {
	return []content.Article{
		{ID: 1, Title: "ព័ត៌មាននយោបាយ", Excerpt: "អត្ថបទសំខាន់", Category: "នយោបាយ",
			Featured: true, Status: content.StatusPublished, Views: 10,
			Comments: []content.Comment{
				{ID: 1, ArticleID: 1, Author: "សុខា", Content: "ល្អណាស់", Likes: 0},
			}},
		{ID: 2, Title: "ព័ត៌មានកីឡា", Excerpt: "បាល់ទាត់", Category: "កីឡា",
			Featured: true, Status: content.StatusPublished},
		{ID: 3, Title: "សេចក្តីព្រាង", Category: "នយោបាយ", Status: content.StatusDraft},
	}
}

func testServer(t *testing.T) (*gin.Engine, *content.Store, *fakeRefresher) {
	t.Helper()

	db, err := database.NewConnection(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	repo := database.NewFeedRepository(db)
	if _, err := repo.SeedFeeds([]database.Feed{
		{Title: "BBC Khmer", URL: "https://www.bbc.com/khmer/index.xml", Category: "politics", Active: true},
	}); err != nil {
		t.Fatalf("Failed to seed feeds: %v", err)
	}

	store := content.NewStore(testArticles())
	carousel := content.NewCarousel(2, 0)
	refresher := &fakeRefresher{imported: 3}

	handler := NewHandler(store, carousel, repo, refresher, &fakeAssist{connected: true})
	return NewServer(handler, testAPIKey), store, refresher
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return body
}

func TestGetArticlesHidesUnpublished(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "GET", "/articles", "", false)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if total := body["total"].(float64); total != 2 {
		t.Errorf("Expected 2 visible articles, got %v", total)
	}
}

func TestGetArticlesCategoryAndSearch(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "GET", "/articles?category=sports", "", false)
	body := decodeBody(t, w)
	if total := body["total"].(float64); total != 1 {
		t.Errorf("Expected 1 sports article, got %v", total)
	}

	w = doRequest(t, r, "GET", "/articles?search=បាល់ទាត់", "", false)
	body = decodeBody(t, w)
	if total := body["total"].(float64); total != 1 {
		t.Errorf("Expected 1 search hit, got %v", total)
	}

	w = doRequest(t, r, "GET", "/articles?search=no-such-term", "", false)
	body = decodeBody(t, w)
	if total := body["total"].(float64); total != 0 {
		t.Errorf("Expected no search hits, got %v", total)
	}
}

func TestGetArticleRecordsView(t *testing.T) {
	r, store, _ := testServer(t)

	w := doRequest(t, r, "GET", "/articles/1", "", false)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	article, _ := store.Get(1)
	if article.Views != 11 {
		t.Errorf("Expected view count 11, got %d", article.Views)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "GET", "/articles/99", "", false)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestLikeArticle(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "POST", "/articles/2/like", "", false)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if likes := body["likes"].(float64); likes != 1 {
		t.Errorf("Expected 1 like, got %v", likes)
	}
}

func TestAddCommentValidation(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "POST", "/articles/1/comments", `{"author":"វុទ្ធី"}`, false)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing content, got %d", w.Code)
	}
}

func TestAddComment(t *testing.T) {
	r, store, _ := testServer(t)

	w := doRequest(t, r, "POST", "/articles/1/comments",
		`{"author":"វុទ្ធី","content":"អរគុណសម្រាប់ព័ត៌មាន"}`, false)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	article, _ := store.Get(1)
	if len(article.Comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(article.Comments))
	}
	last := article.Comments[len(article.Comments)-1]
	if last.Author != "វុទ្ធី" {
		t.Errorf("Expected new comment appended last, got author %q", last.Author)
	}
}

func TestToggleCommentLike(t *testing.T) {
	r, _, _ := testServer(t)

	req := httptest.NewRequest("POST", "/articles/1/comments/1/like", nil)
	req.Header.Set("X-Viewer-ID", "viewer-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if liked := body["liked"].(bool); !liked {
		t.Errorf("Expected first toggle to like")
	}

	// Same viewer toggles again
	req = httptest.NewRequest("POST", "/articles/1/comments/1/like", nil)
	req.Header.Set("X-Viewer-ID", "viewer-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body = decodeBody(t, w)
	if liked := body["liked"].(bool); liked {
		t.Errorf("Expected second toggle to unlike")
	}
	if likes := body["likes"].(float64); likes != 0 {
		t.Errorf("Expected like count back to 0, got %v", likes)
	}
}

func TestViewerIDAssigned(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "GET", "/articles", "", false)
	if w.Header().Get("X-Viewer-ID") == "" {
		t.Errorf("Expected a viewer ID to be assigned")
	}
}

func TestHeroEndpoints(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "GET", "/hero", "", false)
	body := decodeBody(t, w)
	if count := body["count"].(float64); count != 2 {
		t.Errorf("Expected carousel count 2, got %v", count)
	}

	w = doRequest(t, r, "POST", "/hero/next", "", false)
	body = decodeBody(t, w)
	if index := body["index"].(float64); index != 1 {
		t.Errorf("Expected index 1 after next, got %v", index)
	}

	w = doRequest(t, r, "POST", "/hero/next", "", false)
	body = decodeBody(t, w)
	if index := body["index"].(float64); index != 0 {
		t.Errorf("Expected wrap-around to 0, got %v", index)
	}

	w = doRequest(t, r, "POST", "/hero/slide/5", "", false)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for out-of-range slide, got %d", w.Code)
	}
}

func TestAdminRequiresAuth(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "GET", "/api/stats", "", false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without API key, got %d", w.Code)
	}

	req := httptest.NewRequest("GET", "/api/stats", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong API key, got %d", w2.Code)
	}
}

func TestAdminBearerToken(t *testing.T) {
	r, _, _ := testServer(t)

	req := httptest.NewRequest("GET", "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with bearer token, got %d", w.Code)
	}
}

func TestGetStats(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "GET", "/api/stats", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if total := body["totalArticles"].(float64); total != 3 {
		t.Errorf("Expected 3 total articles, got %v", total)
	}
	if published := body["published"].(float64); published != 2 {
		t.Errorf("Expected 2 published, got %v", published)
	}
	if views := body["totalViews"].(float64); views != 10 {
		t.Errorf("Expected 10 total views, got %v", views)
	}
	if comments := body["totalComments"].(float64); comments != 1 {
		t.Errorf("Expected 1 total comment, got %v", comments)
	}
}

func TestAdminListArticlesStatusFilter(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "GET", "/api/articles?status=draft", "", true)
	body := decodeBody(t, w)
	if total := body["total"].(float64); total != 1 {
		t.Errorf("Expected 1 draft article, got %v", total)
	}

	w = doRequest(t, r, "GET", "/api/articles?status=bogus", "", true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown status, got %d", w.Code)
	}
}

func TestAdminCreateArticle(t *testing.T) {
	r, store, _ := testServer(t)

	w := doRequest(t, r, "POST", "/api/articles", `{"excerpt":"no title"}`, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without title, got %d", w.Code)
	}

	w = doRequest(t, r, "POST", "/api/articles", `{"title":"អត្ថបទថ្មី"}`, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if status := body["status"].(string); status != "draft" {
		t.Errorf("Expected new article to default to draft, got %q", status)
	}

	if len(store.Snapshot()) != 4 {
		t.Errorf("Expected 4 articles after create")
	}
}

func TestAdminUpdateArticle(t *testing.T) {
	r, store, _ := testServer(t)

	w := doRequest(t, r, "PUT", "/api/articles/3", `{"status":"published"}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	article, _ := store.Get(3)
	if article.Status != content.StatusPublished {
		t.Errorf("Expected article 3 published, got %s", article.Status)
	}
	if article.Title != "សេចក្តីព្រាង" {
		t.Errorf("Expected untouched fields preserved, got title %q", article.Title)
	}

	w = doRequest(t, r, "PUT", "/api/articles/99", `{"title":"x"}`, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown article, got %d", w.Code)
	}
}

func TestAdminDeleteArticle(t *testing.T) {
	r, store, _ := testServer(t)

	w := doRequest(t, r, "DELETE", "/api/articles/3", "", true)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}
	if _, found := store.Get(3); found {
		t.Errorf("Expected article 3 deleted")
	}

	w = doRequest(t, r, "DELETE", "/api/articles/3", "", true)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", w.Code)
	}
}

func TestAdminFeeds(t *testing.T) {
	r, _, refresher := testServer(t)

	w := doRequest(t, r, "GET", "/api/feeds", "", true)
	body := decodeBody(t, w)
	if total := body["total"].(float64); total != 1 {
		t.Fatalf("Expected 1 seeded feed, got %v", total)
	}

	w = doRequest(t, r, "POST", "/api/feeds",
		`{"title":"VOA Khmer","url":"https://khmer.voanews.com/api/","category":"politics"}`, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, r, "POST", "/api/feeds",
		`{"title":"broken","url":"not-a-url"}`, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid URL, got %d", w.Code)
	}

	w = doRequest(t, r, "POST", "/api/feeds/1/toggle", "", true)
	body = decodeBody(t, w)
	if active := body["active"].(bool); active {
		t.Errorf("Expected feed toggled inactive")
	}

	w = doRequest(t, r, "POST", "/api/feeds/1/refresh", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body = decodeBody(t, w)
	if imported := body["imported"].(float64); imported != 3 {
		t.Errorf("Expected 3 imported, got %v", imported)
	}
	if len(refresher.calls) != 1 || refresher.calls[0] != 1 {
		t.Errorf("Expected refresh call for feed 1, got %v", refresher.calls)
	}

	w = doRequest(t, r, "DELETE", "/api/feeds/2", "", true)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	w = doRequest(t, r, "DELETE", "/api/feeds/99", "", true)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown feed, got %d", w.Code)
	}
}

func TestAssistEndpoints(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "GET", "/api/assist/status", "", true)
	body := decodeBody(t, w)
	if connected := body["connected"].(bool); !connected {
		t.Errorf("Expected assist connected")
	}

	w = doRequest(t, r, "POST", "/api/assist/summarize", `{"content":"អត្ថបទវែង"}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body = decodeBody(t, w)
	if summary := body["summary"].(string); summary != "summary of អត្ថបទវែង" {
		t.Errorf("Unexpected summary %q", summary)
	}

	w = doRequest(t, r, "POST", "/api/assist/summarize", `{}`, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty summarize payload, got %d", w.Code)
	}

	w = doRequest(t, r, "POST", "/api/assist/translate",
		`{"text":"សួស្តី","from":"khmer","to":"english"}`, true)
	body = decodeBody(t, w)
	if translated := body["translated"].(string); translated != "translated សួស្តី" {
		t.Errorf("Unexpected translation %q", translated)
	}

	w = doRequest(t, r, "POST", "/api/assist/analyze", `{"content":"one two three"}`, true)
	body = decodeBody(t, w)
	if words := body["wordCount"].(float64); words != 3 {
		t.Errorf("Expected word count 3, got %v", words)
	}

	w = doRequest(t, r, "POST", "/api/assist/suggest", `{"category":"sports"}`, true)
	body = decodeBody(t, w)
	titles := body["titles"].([]any)
	if len(titles) != 1 || titles[0].(string) != "title for sports" {
		t.Errorf("Unexpected titles %v", titles)
	}
}

func TestHealthAndRoot(t *testing.T) {
	r, _, _ := testServer(t)

	w := doRequest(t, r, "GET", "/health", "", false)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from health, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if articles := body["articles"].(float64); articles != 3 {
		t.Errorf("Expected 3 articles in health, got %v", articles)
	}

	w = doRequest(t, r, "GET", "/", "", false)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from root, got %d", w.Code)
	}
}
