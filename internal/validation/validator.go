package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/sports-central-api/internal/models"
)

const (
	// MaxQueryLength bounds the search query accepted from the browser
	MaxQueryLength = 200

	// MaxTitleLength bounds share titles
	MaxTitleLength = 500

	// MaxTokenLength bounds access tokens accepted by sign-in
	MaxTokenLength = 8192

	// MaxArticleIDLength bounds article ids, which are article URLs
	MaxArticleIDLength = 2048
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator checks request payloads before they reach the services
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCategory checks a category selector from a query string or body.
// An empty selector is valid and means All.
func (v *Validator) ValidateCategory(raw string) (models.Category, []ValidationError) {
	if raw == "" {
		return models.CategoryAll, nil
	}
	category := models.Category(raw)
	if !category.IsSelectable() {
		return "", []ValidationError{{
			Field:   "category",
			Message: fmt.Sprintf("invalid category, must be one of: %s", selectableList()),
			Value:   raw,
		}}
	}
	return category, nil
}

// ValidateQuery checks a search query
func (v *Validator) ValidateQuery(query string) []ValidationError {
	if !utf8.ValidString(query) {
		return []ValidationError{{Field: "query", Message: "query must be valid UTF-8"}}
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return []ValidationError{{
			Field:   "query",
			Message: fmt.Sprintf("query must be at most %d characters", MaxQueryLength),
		}}
	}
	return nil
}

// ValidateArticleID checks an article id. Ids are article URLs.
func (v *Validator) ValidateArticleID(id string) []ValidationError {
	if id == "" {
		return []ValidationError{{Field: "article_id", Message: "article_id is required"}}
	}
	if len(id) > MaxArticleIDLength {
		return []ValidationError{{
			Field:   "article_id",
			Message: fmt.Sprintf("article_id must be at most %d bytes", MaxArticleIDLength),
		}}
	}
	if strings.TrimSpace(id) != id {
		return []ValidationError{{Field: "article_id", Message: "article_id must not have surrounding whitespace", Value: id}}
	}
	return nil
}

// ValidateShare checks a share or copy request
func (v *Validator) ValidateShare(req *models.ShareRequest) []ValidationError {
	var errors []ValidationError

	if utf8.RuneCountInString(req.Title) > MaxTitleLength {
		errors = append(errors, ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
		})
	}

	if req.URL == "" {
		errors = append(errors, ValidationError{Field: "url", Message: "url is required"})
	} else if !isValidURL(req.URL) {
		errors = append(errors, ValidationError{Field: "url", Message: "url must be an absolute http(s) URL", Value: req.URL})
	}

	return errors
}

// ValidateSignIn checks a sign-in request
func (v *Validator) ValidateSignIn(req *models.SignInRequest) []ValidationError {
	token := strings.TrimSpace(req.AccessToken)
	if token == "" {
		return []ValidationError{{Field: "access_token", Message: "access_token is required"}}
	}
	if len(token) > MaxTokenLength {
		return []ValidationError{{Field: "access_token", Message: "access_token is too long"}}
	}
	if strings.Count(token, ".") != 2 {
		return []ValidationError{{Field: "access_token", Message: "access_token must be a JWT"}}
	}
	return nil
}

// isValidURL checks for an absolute http or https URL with a host
func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func selectableList() string {
	names := make([]string, len(models.SelectableCategories))
	for i, c := range models.SelectableCategories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
