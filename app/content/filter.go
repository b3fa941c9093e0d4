package content

import (
	"strings"

	"golang.org/x/text/cases"
)

// VisibleArticles computes the subset of articles visible for a category
// selector and a free-text search term. Pure function: identical inputs
// yield identical results, relative order is preserved, single O(n) pass.
//
// The selector is either SelectorAll or one of the fixed category slugs;
// an unrecognized selector matches nothing. An empty search term matches
// everything; otherwise the term is matched case-folded as a substring of
// the title, the excerpt or the category label.
func VisibleArticles(all []Article, categorySelector, searchTerm string) []Article {
	label, known := SelectorLabel(categorySelector)
	matchAll := categorySelector == SelectorAll

	folder := cases.Fold()
	term := ""
	if searchTerm != "" {
		term = folder.String(searchTerm)
	}

	visible := make([]Article, 0, len(all))
	for _, a := range all {
		if !matchAll && (!known || a.Category != label) {
			continue
		}
		if term != "" && !matchesSearch(folder, a, term) {
			continue
		}
		visible = append(visible, a)
	}
	return visible
}

func matchesSearch(folder cases.Caser, a Article, foldedTerm string) bool {
	return strings.Contains(folder.String(a.Title), foldedTerm) ||
		strings.Contains(folder.String(a.Excerpt), foldedTerm) ||
		strings.Contains(folder.String(a.Category), foldedTerm)
}

// FeaturedArticles returns the articles flagged for the hero carousel,
// in collection order.
func FeaturedArticles(all []Article) []Article {
	featured := make([]Article, 0, len(all))
	for _, a := range all {
		if a.Featured {
			featured = append(featured, a)
		}
	}
	return featured
}
