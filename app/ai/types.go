package ai

// Request and response shapes for the assist operations. The wire types
// mirror the Ollama generate API; the result types are what the admin
// editor consumes.

type SummarizeRequest struct {
	Content   string `json:"content"`
	Language  string `json:"language"`  // "khmer" or "english"
	MaxLength int    `json:"maxLength"` // words, 0 means default
	Style     string `json:"style"`     // "news", "academic" or "casual"
}

type SummarizeResult struct {
	Summary        string   `json:"summary"`
	KeyPoints      []string `json:"keyPoints"`
	Sentiment      string   `json:"sentiment"`
	Confidence     int      `json:"confidence"`
	ProcessingTime int64    `json:"processingTime"` // milliseconds
}

type Analysis struct {
	ReadabilityScore  int      `json:"readabilityScore"`
	WordCount         int      `json:"wordCount"`
	EstimatedReadTime int      `json:"estimatedReadTime"` // minutes
	Topics            []string `json:"topics"`
	Entities          []string `json:"entities"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64  `json:"temperature"`
	TopP        *float64 `json:"top_p,omitempty"`
	MaxTokens   int      `json:"max_tokens"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}
