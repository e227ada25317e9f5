package models

import "encoding/json"

// Category is a sports category the reader can query for
type Category string

const (
	CategoryAll        Category = "All"
	CategoryFootball   Category = "Football"
	CategoryBasketball Category = "Basketball"
	CategoryBaseball   Category = "Baseball"
	CategoryHockey     Category = "Hockey"
	CategoryTennis     Category = "Tennis"
	CategoryF1         Category = "F1"
	CategoryGeneral    Category = "General"
)

// SelectableCategories are the categories offered to the user, in display order.
// CategoryGeneral is never selected directly; it tags results of the All query.
var SelectableCategories = []Category{
	CategoryAll,
	CategoryFootball,
	CategoryBasketball,
	CategoryBaseball,
	CategoryHockey,
	CategoryTennis,
	CategoryF1,
}

// ValidCategories defines categories an article may carry
var ValidCategories = map[Category]bool{
	CategoryAll:        true,
	CategoryFootball:   true,
	CategoryBasketball: true,
	CategoryBaseball:   true,
	CategoryHockey:     true,
	CategoryTennis:     true,
	CategoryF1:         true,
	CategoryGeneral:    true,
}

// IsSelectable reports whether c can be used as a fetch selector
func (c Category) IsSelectable() bool {
	for _, s := range SelectableCategories {
		if s == c {
			return true
		}
	}
	return false
}

// Article is the canonical article shape served to the browser.
// ID is the source URL, so bookmarks survive re-fetches.
type Article struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	ImageURL    string   `json:"imageUrl"`
	Date        string   `json:"date"`
	Source      string   `json:"source"`
	URL         string   `json:"url"`
}

// ArticleView is an Article annotated with the current user's bookmark flag
type ArticleView struct {
	Article
	Bookmarked bool `json:"bookmarked"`
}

// RawSource is the publisher block of a news API record
type RawSource struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// RawArticle represents an article record as returned by the news search API
type RawArticle struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Author      *string    `json:"author"`
	PublishedAt string     `json:"publishedAt"`
	URLToImage  *string    `json:"urlToImage"`
	Content     *string    `json:"content"`
	Source      *RawSource `json:"source"`
}

// NewsResponse is the envelope of a news search API response.
// Articles stay raw so one bad record cannot fail the whole envelope.
type NewsResponse struct {
	Status       string            `json:"status"`
	TotalResults int               `json:"totalResults"`
	Articles     []json.RawMessage `json:"articles"`
	Code         string       `json:"code,omitempty"`
	Message      string       `json:"message,omitempty"`
}

// CategoryRequest selects a feed category
type CategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// QueryRequest replaces the feed search query
type QueryRequest struct {
	Query string `json:"query"`
}

// ArticleListResponse is returned by the article and feed endpoints.
// Error is set when the fetch failed and Articles is empty.
type ArticleListResponse struct {
	Category Category      `json:"category"`
	Query    string        `json:"query"`
	Total    int           `json:"total"`
	Count    int           `json:"count"`
	Articles []ArticleView `json:"articles"`
	Error    string        `json:"error,omitempty"`
}
