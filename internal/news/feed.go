package news

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/models"
)

// ArticleFetcher fetches the articles for one category selection
type ArticleFetcher interface {
	Fetch(ctx context.Context, category models.Category) ([]models.Article, error)
}

// Notifier receives user-facing failure notifications
type Notifier interface {
	Error(message string)
}

// FilterState is the transient category and search selection
type FilterState struct {
	Category models.Category `json:"category"`
	Query    string          `json:"query"`
}

// FeedSnapshot is a consistent view of the feed at one instant
type FeedSnapshot struct {
	FilterState
	Loading    bool             `json:"loading"`
	Generation uint64           `json:"generation"`
	Total      int              `json:"total"`
	Articles   []models.Article `json:"articles"`
}

// Feed holds the loaded article list and the filter selection.
// Every Select is tagged with a generation; a response that arrives after a
// newer Select started is discarded instead of overwriting newer results.
type Feed struct {
	fetcher  ArticleFetcher
	notifier Notifier
	log      zerolog.Logger

	mu         sync.RWMutex
	state      FilterState
	articles   []models.Article
	loading    bool
	generation uint64
}

// NewFeed creates a Feed selecting All, in the loading state until the first Select completes
func NewFeed(fetcher ArticleFetcher, notifier Notifier, log zerolog.Logger) *Feed {
	return &Feed{
		fetcher:  fetcher,
		notifier: notifier,
		log:      log.With().Str("component", "feed").Logger(),
		state:    FilterState{Category: models.CategoryAll},
		articles: []models.Article{},
		loading:  true,
	}
}

// Select changes the category and loads its articles. applied reports whether
// the result was stored; it is false when a newer Select superseded this one.
// A fetch failure stores an empty list and notifies the user.
func (f *Feed) Select(ctx context.Context, category models.Category) (applied bool, err error) {
	if !category.IsSelectable() {
		return false, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.state.Category = category
	f.loading = true
	f.mu.Unlock()

	articles, err := f.fetcher.Fetch(ctx, category)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		f.log.Debug().
			Str("category", string(category)).
			Uint64("generation", gen).
			Uint64("current", f.generation).
			Msg("Discarding stale fetch result")
		return false, err
	}

	if err != nil {
		articles = []models.Article{}
		if f.notifier != nil {
			f.notifier.Error("Failed to load news")
		}
	}
	f.articles = articles
	f.loading = false

	return true, err
}

// SetQuery replaces the search query
func (f *Feed) SetQuery(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Query = query
}

// State returns the current filter selection
func (f *Feed) State() FilterState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Snapshot returns the filter selection together with the visible articles
func (f *Feed) Snapshot() FeedSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return FeedSnapshot{
		FilterState: f.state,
		Loading:     f.loading,
		Generation:  f.generation,
		Total:       len(f.articles),
		Articles:    Filter(f.articles, f.state.Query),
	}
}
