package news

import (
	"fmt"
	"strings"
	"time"

	"github.com/sports-central-api/internal/models"
	"golang.org/x/text/language"
)

// PlaceholderImageURL is used when the source omits an image
const PlaceholderImageURL = "https://images.unsplash.com/photo-1522778119026-d647f0596c20?auto=format&fit=crop&q=80&w=1200"

// dateLayouts are short numeric date renderings per supported locale.
// The first entry is the fallback.
var dateLayouts = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "1/2/2006"},
	{language.BritishEnglish, "02/01/2006"},
	{language.German, "2.1.2006"},
	{language.French, "02/01/2006"},
	{language.Spanish, "2/1/2006"},
	{language.Japanese, "2006/1/2"},
}

var dateMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(dateLayouts))
	for i, l := range dateLayouts {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// Normalizer maps raw news API records onto the canonical Article
type Normalizer struct {
	layout string
	loc    *time.Location
}

// NewNormalizer creates a Normalizer rendering dates for the given locale and zone.
// Unknown locales fall back to US English.
func NewNormalizer(locale string, loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{
		layout: layoutFor(locale),
		loc:    loc,
	}
}

func layoutFor(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return dateLayouts[0].layout
	}
	_, index, confidence := dateMatcher.Match(tag)
	if confidence == language.No {
		return dateLayouts[0].layout
	}
	return dateLayouts[index].layout
}

// Normalize converts one raw record. requested is the category the query was issued for.
func (n *Normalizer) Normalize(raw models.RawArticle, requested models.Category) (models.Article, error) {
	url := strings.TrimSpace(raw.URL)
	if url == "" {
		return models.Article{}, fmt.Errorf("%w: missing url", ErrMalformedRecord)
	}

	published, err := parsePublishedAt(raw.PublishedAt)
	if err != nil {
		return models.Article{}, fmt.Errorf("%w: publishedAt %q for %s: %v", ErrMalformedRecord, raw.PublishedAt, url, err)
	}

	article := models.Article{
		ID:          url,
		Title:       raw.Title,
		Description: valueOr(raw.Description, ""),
		Category:    TagFor(requested),
		ImageURL:    valueOr(raw.URLToImage, PlaceholderImageURL),
		Date:        published.In(n.loc).Format(n.layout),
		URL:         url,
	}
	if raw.Source != nil {
		article.Source = raw.Source.Name
	}

	return article, nil
}

// TagFor returns the category stamped on results of a query for requested
func TagFor(requested models.Category) models.Category {
	if requested == models.CategoryAll {
		return models.CategoryGeneral
	}
	return requested
}

func parsePublishedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	// Some publishers omit the zone designator
	if t, err2 := time.Parse("2006-01-02T15:04:05", s); err2 == nil {
		return t.UTC(), nil
	}
	return time.Time{}, err
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
