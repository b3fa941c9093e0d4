package ai

import (
	"strings"
	"time"
)

// Deterministic, side-effect-free substitutes used when the remote
// endpoint is unavailable or returns something unusable.

// FallbackConfidence is the ceiling reported by any locally computed
// summary.
const FallbackConfidence = 50

const khmerSentenceMark = "។"

func fallbackSummary(content string, elapsed time.Duration) SummarizeResult {
	sentences := splitSentences(content)

	summary := content
	if len(sentences) > 0 {
		head := sentences
		if len(head) > 2 {
			head = head[:2]
		}
		summary = strings.Join(head, khmerSentenceMark) + khmerSentenceMark
	}

	keyPoints := make([]string, 0, 3)
	for i, s := range sentences {
		if i == 3 {
			break
		}
		keyPoints = append(keyPoints, strings.TrimSpace(s))
	}

	return SummarizeResult{
		Summary:        summary,
		KeyPoints:      keyPoints,
		Sentiment:      "neutral",
		Confidence:     FallbackConfidence,
		ProcessingTime: elapsed.Milliseconds(),
	}
}

func fallbackAnalysis(content string) Analysis {
	wordCount := len(strings.Fields(content))
	readTime := (wordCount + 199) / 200
	if readTime < 1 {
		readTime = 1
	}
	return Analysis{
		ReadabilityScore:  7,
		WordCount:         wordCount,
		EstimatedReadTime: readTime,
		Topics:            []string{"ព័ត៌មានទូទៅ"},
		Entities:          []string{},
	}
}

var staticSuggestions = map[string][]string{
	"បច្ចេកវិទ្យា": {
		"បច្ចេកវិទ្យា AI ថ្មីៗនៅកម្ពុជា",
		"ការអភិវឌ្ឍន៍ស្មាតហ្វូននៅតំបន់",
		"ការប្រើប្រាស់អ៊ីនធឺណិតក្នុងការអប់រំ",
	},
	"នយោបាយ": {
		"ការអភិវឌ្ឍន៍ហេដ្ឋារចនាសម្ព័ន្ធថ្មី",
		"នយោបាយសេដ្ឋកិច្ចប្រចាំឆ្នាំ",
		"ការកែទម្រង់រដ្ឋបាល",
	},
	"កីឡា": {
		"ការប្រកួតបាល់ទាត់ជាតិ",
		"កីឡាករកម្ពុជានៅអន្តរជាតិ",
		"ការអភិវឌ្ឍន៍កីឡាក្នុងស្រុក",
	},
}

var genericSuggestions = []string{
	"ព័ត៌មានថ្មីៗប្រចាំថ្ងៃ",
	"ការអភិវឌ្ឍន៍សង្គម",
	"វប្បធម៌និងប្រពៃណី",
}

func fallbackSuggestions(category string) []string {
	if titles, ok := staticSuggestions[category]; ok {
		out := make([]string, len(titles))
		copy(out, titles)
		return out
	}
	out := make([]string, len(genericSuggestions))
	copy(out, genericSuggestions)
	return out
}

func splitSentences(content string) []string {
	parts := strings.Split(content, khmerSentenceMark)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}
