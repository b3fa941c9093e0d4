package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yml
var seedData []byte

// FeedSeed is a feed registry entry from the fixtures. The registry
// itself lives in the database package; the fixtures travel with the
// rest of the seeded content.
type FeedSeed struct {
	Title    string `yaml:"title"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Active   bool   `yaml:"active"`
}

type seedFile struct {
	Articles []Article  `yaml:"articles"`
	Feeds    []FeedSeed `yaml:"feeds"`
}

// LoadSeed parses the embedded fixtures and validates the store
// invariants: unique identifiers, enumerated statuses, non-negative
// counters, comments referencing their owning article.
func LoadSeed() ([]Article, []FeedSeed, error) {
	var seed seedFile
	if err := yaml.Unmarshal(seedData, &seed); err != nil {
		return nil, nil, fmt.Errorf("failed to parse seed fixtures: %w", err)
	}
	if err := validateSeed(seed.Articles); err != nil {
		return nil, nil, fmt.Errorf("invalid seed fixtures: %w", err)
	}
	return seed.Articles, seed.Feeds, nil
}

func validateSeed(articles []Article) error {
	articleIDs := make(map[int64]bool, len(articles))
	commentIDs := make(map[int64]bool)
	for _, a := range articles {
		if a.ID <= 0 {
			return fmt.Errorf("article %q has no identifier", a.Title)
		}
		if articleIDs[a.ID] {
			return fmt.Errorf("duplicate article identifier %d", a.ID)
		}
		articleIDs[a.ID] = true
		if !a.Status.Valid() {
			return fmt.Errorf("article %d has invalid status %q", a.ID, a.Status)
		}
		if a.Likes < 0 || a.Views < 0 {
			return fmt.Errorf("article %d has negative counters", a.ID)
		}
		for _, c := range a.Comments {
			if commentIDs[c.ID] {
				return fmt.Errorf("duplicate comment identifier %d", c.ID)
			}
			commentIDs[c.ID] = true
			if c.ArticleID != a.ID {
				return fmt.Errorf("comment %d references article %d but belongs to %d", c.ID, c.ArticleID, a.ID)
			}
			if c.Likes < 0 {
				return fmt.Errorf("comment %d has a negative like count", c.ID)
			}
		}
	}
	return nil
}
