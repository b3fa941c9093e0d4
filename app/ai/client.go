package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "deepseek-r1:latest"

	defaultSummaryWords = 150
	suggestionCount     = 5
)

// Client is a stateless wrapper around a local Ollama endpoint. Every
// operation degrades to a deterministic local fallback on transport or
// parse failure; the assist feature is advisory and never surfaces a
// hard error to its caller.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CheckConnection probes the endpoint and reports whether a deepseek-r1
// model is loaded. The other operations do not require this gate; they
// fall back on their own.
func (c *Client) CheckConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("AI endpoint unreachable", "url", c.baseURL, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return false
	}

	for _, m := range tags.Models {
		if strings.Contains(m.Name, "deepseek-r1") {
			return true
		}
	}
	return false
}

// Summarize requests a constrained-length summary. The model is asked
// for JSON; an unparseable reply degrades to a low-confidence truncation
// and a failed request to the local sentence-based fallback.
func (c *Client) Summarize(ctx context.Context, req SummarizeRequest) SummarizeResult {
	start := time.Now()

	topP := 0.9
	raw, err := c.generate(ctx, buildSummarizePrompt(req), generateOptions{
		Temperature: 0.3,
		TopP:        &topP,
		MaxTokens:   500,
	})
	if err != nil {
		slog.Warn("Summarization failed, using fallback", "error", err)
		return fallbackSummary(req.Content, time.Since(start))
	}

	return parseSummarizeResponse(raw, time.Since(start))
}

// Translate converts text between Khmer and English. On failure the
// original text is returned unchanged.
func (c *Client) Translate(ctx context.Context, text, from, to string) string {
	prompt := fmt.Sprintf("Translate the following text from %s to %s. Maintain the original meaning and context:\n\n%s\n\nTranslation:", from, to, text)

	raw, err := c.generate(ctx, prompt, generateOptions{
		Temperature: 0.2,
		MaxTokens:   1000,
	})
	if err != nil {
		slog.Warn("Translation failed, returning original text", "error", err)
		return text
	}

	return strings.TrimSpace(raw)
}

// Analyze extracts readability, length and topic insights for a piece of
// content. On failure a local estimate is computed instead.
func (c *Client) Analyze(ctx context.Context, content string) Analysis {
	prompt := fmt.Sprintf(`Analyze the following Khmer news content and provide insights:

%s

Please provide:
1. Readability score (1-10)
2. Word count
3. Estimated reading time in minutes
4. Main topics (comma-separated)
5. Named entities (people, places, organizations)

Format your response as JSON.`, content)

	raw, err := c.generate(ctx, prompt, generateOptions{
		Temperature: 0.1,
		MaxTokens:   300,
	})
	if err != nil {
		slog.Warn("Content analysis failed, using fallback", "error", err)
		return fallbackAnalysis(content)
	}

	return parseAnalysisResponse(raw, content)
}

// SuggestTitles asks for article title ideas for a category, one per
// line. On failure a fixed per-category list is returned.
func (c *Client) SuggestTitles(ctx context.Context, category string, count int) []string {
	if count <= 0 {
		count = suggestionCount
	}
	prompt := fmt.Sprintf("Generate %d engaging Khmer news article title suggestions for the %s category. Focus on current trends and topics that would interest Cambodian readers. Provide only the titles, one per line.", count, category)

	raw, err := c.generate(ctx, prompt, generateOptions{
		Temperature: 0.7,
		MaxTokens:   400,
	})
	if err != nil {
		slog.Warn("Title suggestion failed, using fallback", "error", err)
		return fallbackSuggestions(category)
	}

	var titles []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			titles = append(titles, trimmed)
		}
	}
	if len(titles) == 0 {
		return fallbackSuggestions(category)
	}
	return titles
}

func (c *Client) generate(ctx context.Context, prompt string, opts generateOptions) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: opts,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return gen.Response, nil
}

func buildSummarizePrompt(req SummarizeRequest) string {
	style := "in a journalistic style suitable for news readers"
	switch req.Style {
	case "academic":
		style = "in an academic and formal tone"
	case "casual":
		style = "in a casual and easy-to-understand manner"
	}

	maxLength := req.MaxLength
	if maxLength <= 0 {
		maxLength = defaultSummaryWords
	}

	language := req.Language
	if language == "" {
		language = "khmer"
	}

	return fmt.Sprintf(`Please summarize the following %s content %s.
Keep the summary under %d words and maintain the original language.

Content:
%s

Please provide:
1. A concise summary
2. 3-5 key points
3. Overall sentiment (positive/negative/neutral)
4. Confidence level (0-100%%)

Format your response as JSON with keys: summary, keyPoints, sentiment, confidence`, language, style, maxLength, req.Content)
}

func parseSummarizeResponse(raw string, elapsed time.Duration) SummarizeResult {
	var parsed struct {
		Summary    string   `json:"summary"`
		KeyPoints  []string `json:"keyPoints"`
		Sentiment  string   `json:"sentiment"`
		Confidence int      `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		// Model did not honor the JSON instruction. Keep the reply but
		// pin the confidence low.
		return SummarizeResult{
			Summary:        truncate(raw, 200),
			KeyPoints:      []string{},
			Sentiment:      "neutral",
			Confidence:     60,
			ProcessingTime: elapsed.Milliseconds(),
		}
	}

	result := SummarizeResult{
		Summary:        parsed.Summary,
		KeyPoints:      parsed.KeyPoints,
		Sentiment:      parsed.Sentiment,
		Confidence:     parsed.Confidence,
		ProcessingTime: elapsed.Milliseconds(),
	}
	if result.Summary == "" {
		result.Summary = truncate(raw, 200)
	}
	if result.KeyPoints == nil {
		result.KeyPoints = []string{}
	}
	if result.Sentiment == "" {
		result.Sentiment = "neutral"
	}
	if result.Confidence == 0 {
		result.Confidence = 75
	}
	return result
}

func parseAnalysisResponse(raw, content string) Analysis {
	var parsed Analysis
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fallbackAnalysis(content)
	}

	fallback := fallbackAnalysis(content)
	if parsed.ReadabilityScore == 0 {
		parsed.ReadabilityScore = fallback.ReadabilityScore
	}
	if parsed.WordCount == 0 {
		parsed.WordCount = fallback.WordCount
	}
	if parsed.EstimatedReadTime == 0 {
		parsed.EstimatedReadTime = fallback.EstimatedReadTime
	}
	if parsed.Topics == nil {
		parsed.Topics = []string{}
	}
	if parsed.Entities == nil {
		parsed.Entities = []string{}
	}
	return parsed
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
