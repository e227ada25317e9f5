package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/repository"
)

// Notifier receives transient user notifications
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// BookmarkManager holds the current user's bookmarked article ids.
// The set only changes after the store confirms a mutation.
type BookmarkManager struct {
	repo     repository.BookmarkRepository
	notifier Notifier
	log      zerolog.Logger

	mu      sync.RWMutex
	owner   string
	ids     map[string]struct{}
	loading bool
	loadGen uint64

	inflightMu sync.Mutex
	inflight   map[toggleKey]struct{}
}

type toggleKey struct {
	userID    string
	articleID string
}

// NewBookmarkManager creates an empty manager
func NewBookmarkManager(repo repository.BookmarkRepository, notifier Notifier, log zerolog.Logger) *BookmarkManager {
	return &BookmarkManager{
		repo:     repo,
		notifier: notifier,
		log:      log.With().Str("service", "bookmarks").Logger(),
		ids:      make(map[string]struct{}),
		inflight: make(map[toggleKey]struct{}),
	}
}

// Load replaces the set with userID's bookmarks. The set belongs to userID,
// empty, from the moment Load starts; toggles for userID are rejected with
// ErrBookmarksLoading until it finishes. On failure the set is left empty
// rather than stale.
func (m *BookmarkManager) Load(ctx context.Context, userID string) error {
	m.mu.Lock()
	m.loadGen++
	gen := m.loadGen
	m.owner = userID
	m.ids = make(map[string]struct{})
	m.loading = true
	m.mu.Unlock()

	ids, err := m.repo.ListArticleIDs(ctx, userID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.loadGen {
		// A newer Load or Clear owns the set
		return nil
	}
	m.loading = false

	if err != nil {
		m.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load bookmarks")
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	for _, id := range ids {
		m.ids[id] = struct{}{}
	}
	m.log.Debug().Str("user_id", userID).Int("count", len(ids)).Msg("Bookmarks loaded")
	return nil
}

// Clear empties the set and forgets its owner
func (m *BookmarkManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadGen++
	m.owner = ""
	m.ids = make(map[string]struct{})
	m.loading = false
}

// Loading reports whether a Load is outstanding
func (m *BookmarkManager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// IsBookmarked reports whether articleID is in the current set
func (m *BookmarkManager) IsBookmarked(articleID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.ids[articleID]
	return ok
}

// IDs returns the bookmarked ids in sorted order
func (m *BookmarkManager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Count returns the size of the current set
func (m *BookmarkManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// Owner returns the user the set belongs to, or "" when cleared
func (m *BookmarkManager) Owner() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.owner
}

// Toggle flips articleID for userID and returns the confirmed new state.
// Only one toggle per (userID, articleID) may be outstanding; a second one is
// rejected with ErrToggleInFlight.
func (m *BookmarkManager) Toggle(ctx context.Context, userID, articleID string) (bool, error) {
	if userID == "" {
		m.notify(func(n Notifier) { n.Error("Please sign in to bookmark articles") })
		return false, ErrUnauthenticated
	}

	m.mu.RLock()
	owner := m.owner
	loading := m.loading
	_, bookmarked := m.ids[articleID]
	m.mu.RUnlock()

	if owner == userID && loading {
		return false, ErrBookmarksLoading
	}
	if owner != userID {
		m.log.Warn().Str("user_id", userID).Str("owner", owner).Msg("Toggle for a user that is not signed in")
		m.notify(func(n Notifier) { n.Error("Please sign in to bookmark articles") })
		return false, ErrUnauthenticated
	}

	key := toggleKey{userID: userID, articleID: articleID}
	if !m.acquire(key) {
		return bookmarked, ErrToggleInFlight
	}
	defer m.release(key)

	// Re-read under the in-flight guard; a previous toggle may have just completed
	bookmarked = m.IsBookmarked(articleID)

	var err error
	if bookmarked {
		err = m.repo.Delete(ctx, userID, articleID)
	} else {
		_, err = m.repo.Insert(ctx, userID, articleID)
	}
	if err != nil {
		m.log.Error().
			Err(err).
			Str("user_id", userID).
			Str("article_id", articleID).
			Bool("was_bookmarked", bookmarked).
			Msg("Bookmark toggle failed")
		m.notify(func(n Notifier) { n.Error("Failed to update bookmark") })
		return bookmarked, fmt.Errorf("%w: %w", ErrToggleFailed, err)
	}

	m.mu.Lock()
	if m.owner == userID && !m.loading {
		if bookmarked {
			delete(m.ids, articleID)
		} else {
			m.ids[articleID] = struct{}{}
		}
	}
	m.mu.Unlock()

	if bookmarked {
		m.notify(func(n Notifier) { n.Success("Article removed from bookmarks") })
	} else {
		m.notify(func(n Notifier) { n.Success("Article bookmarked") })
	}
	return !bookmarked, nil
}

func (m *BookmarkManager) acquire(key toggleKey) bool {
	m.inflightMu.Lock()
	defer m.inflightMu.Unlock()
	if _, busy := m.inflight[key]; busy {
		return false
	}
	m.inflight[key] = struct{}{}
	return true
}

func (m *BookmarkManager) release(key toggleKey) {
	m.inflightMu.Lock()
	defer m.inflightMu.Unlock()
	delete(m.inflight, key)
}

func (m *BookmarkManager) notify(fn func(Notifier)) {
	if m.notifier != nil {
		fn(m.notifier)
	}
}
