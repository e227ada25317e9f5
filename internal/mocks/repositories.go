package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sports-central-api/internal/models"
	"github.com/sports-central-api/internal/repository"
)

// MockBookmarkRepository is an in-memory BookmarkRepository
type MockBookmarkRepository struct {
	mu        sync.Mutex
	Bookmarks map[string]map[string]bool // userID -> articleID set

	ListError   error
	InsertError error
	DeleteError error

	// ListFunc, InsertFunc and DeleteFunc, when set, run before the default
	// behaviour; a non-nil error short-circuits it
	ListFunc   func(ctx context.Context, userID string) error
	InsertFunc func(ctx context.Context, userID, articleID string) error
	DeleteFunc func(ctx context.Context, userID, articleID string) error

	ListCalls   int
	InsertCalls int
	DeleteCalls int
}

// Verify interface compliance
var _ repository.BookmarkRepository = (*MockBookmarkRepository)(nil)

func NewMockBookmarkRepository() *MockBookmarkRepository {
	return &MockBookmarkRepository{
		Bookmarks: make(map[string]map[string]bool),
	}
}

// Seed adds bookmarks without counting calls
func (m *MockBookmarkRepository) Seed(userID string, articleIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Bookmarks[userID] == nil {
		m.Bookmarks[userID] = make(map[string]bool)
	}
	for _, id := range articleIDs {
		m.Bookmarks[userID][id] = true
	}
}

// Has reports whether the store holds (userID, articleID)
func (m *MockBookmarkRepository) Has(userID, articleID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Bookmarks[userID][articleID]
}

// Calls returns the total number of store calls
func (m *MockBookmarkRepository) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListCalls + m.InsertCalls + m.DeleteCalls
}

func (m *MockBookmarkRepository) ListArticleIDs(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	m.ListCalls++
	fn := m.ListFunc
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, userID); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	ids := make([]string, 0, len(m.Bookmarks[userID]))
	for id := range m.Bookmarks[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MockBookmarkRepository) Insert(ctx context.Context, userID, articleID string) (*models.Bookmark, error) {
	m.mu.Lock()
	m.InsertCalls++
	fn := m.InsertFunc
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, userID, articleID); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return nil, m.InsertError
	}
	if m.Bookmarks[userID][articleID] {
		return nil, repository.ErrDuplicateBookmark
	}
	if m.Bookmarks[userID] == nil {
		m.Bookmarks[userID] = make(map[string]bool)
	}
	m.Bookmarks[userID][articleID] = true
	return &models.Bookmark{
		ID:        userID + ":" + articleID,
		UserID:    userID,
		ArticleID: articleID,
		CreatedAt: time.Now(),
	}, nil
}

func (m *MockBookmarkRepository) Delete(ctx context.Context, userID, articleID string) error {
	m.mu.Lock()
	m.DeleteCalls++
	fn := m.DeleteFunc
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, userID, articleID); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Bookmarks[userID], articleID)
	return nil
}

func (m *MockBookmarkRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, set := range m.Bookmarks {
		total += len(set)
	}
	return total, nil
}

// MockProfileRepository is an in-memory ProfileRepository
type MockProfileRepository struct {
	Profiles map[string]*models.Profile
	GetError error
}

// Verify interface compliance
var _ repository.ProfileRepository = (*MockProfileRepository)(nil)

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		Profiles: make(map[string]*models.Profile),
	}
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Profiles[id], nil
}
