package news

import (
	"strings"

	"github.com/sports-central-api/internal/models"
	"golang.org/x/text/cases"
)

// Filter returns the articles whose title or description contains query,
// compared under Unicode case folding. Order is preserved and an empty
// query returns articles unchanged.
func Filter(articles []models.Article, query string) []models.Article {
	if query == "" {
		return articles
	}

	// A Caser carries state, so each call gets its own
	fold := cases.Fold()
	needle := fold.String(query)

	filtered := make([]models.Article, 0, len(articles))
	for _, article := range articles {
		if matches(fold, article, needle) {
			filtered = append(filtered, article)
		}
	}
	return filtered
}

func matches(fold cases.Caser, article models.Article, needle string) bool {
	return strings.Contains(fold.String(article.Title), needle) ||
		strings.Contains(fold.String(article.Description), needle)
}
