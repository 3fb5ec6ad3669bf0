package domain

import (
	"strings"
	"time"
)

// Subcategory is a nested grouping inside a Category. Slugs are unique
// within the parent.
type Subcategory struct {
	Slug  string
	Name  string
	Count int
}

// Category groups businesses and carries a denormalized listing count.
// Counts are best-effort: they are incremented on business creation and
// never compensated on deletion.
type Category struct {
	Slug          string
	Name          string
	ImageURL      string
	ImagePublicID string
	Count         int
	Subcategories []Subcategory
	CreatedAt     time.Time
}

// TitleCaseSlug turns a slug back into a display name, e.g.
// "real-estate" -> "Real Estate". Used when a category is created
// implicitly by a submission and only its slug is known.
func TitleCaseSlug(slug string) string {
	replaced := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	words := strings.Fields(replaced)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
