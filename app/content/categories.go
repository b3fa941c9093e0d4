package content

import (
	"strings"
	"time"
)

// SelectorAll matches every category.
const SelectorAll = "all"

var categories = []Category{
	{ID: 1, Name: "Politics", NameKh: "នយោបាយ", Slug: "politics", Icon: "🏛️", Color: "bg-red-500"},
	{ID: 2, Name: "Technology", NameKh: "បច្ចេកវិទ្យា", Slug: "technology", Icon: "💻", Color: "bg-blue-500"},
	{ID: 3, Name: "Sports", NameKh: "កីឡា", Slug: "sports", Icon: "⚽", Color: "bg-green-500"},
	{ID: 4, Name: "Business", NameKh: "អាជីវកម្ម", Slug: "business", Icon: "💼", Color: "bg-yellow-500"},
	{ID: 5, Name: "Entertainment", NameKh: "កម្សាន្ត", Slug: "entertainment", Icon: "🎭", Color: "bg-purple-500"},
	{ID: 6, Name: "Health", NameKh: "សុខភាព", Slug: "health", Icon: "🏥", Color: "bg-pink-500"},
}

// Categories returns the fixed reference list. The list is not derived
// from articles.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// SelectorLabel maps a category selector to its Khmer display label.
// Returns false for unrecognized selectors, including SelectorAll.
func SelectorLabel(selector string) (string, bool) {
	for _, c := range categories {
		if c.Slug == selector {
			return c.NameKh, true
		}
	}
	return "", false
}

var khmerDigits = strings.NewReplacer(
	"0", "០", "1", "១", "2", "២", "3", "៣", "4", "៤",
	"5", "៥", "6", "៦", "7", "៧", "8", "៨", "9", "៩",
)

// FormatKhmerDate renders a date the way the seeded fixtures do,
// YYYY-MM-DD with Khmer numerals.
func FormatKhmerDate(t time.Time) string {
	return khmerDigits.Replace(t.Format("2006-01-02"))
}
