package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/sports-central-api/internal/auth"
	"github.com/sports-central-api/internal/models"
)

// MockAuthProvider is a controllable auth.Provider
type MockAuthProvider struct {
	mu          sync.Mutex
	Current     *models.Session
	CurrentErr  error
	SignOutErr  error
	Tokens      map[string]*models.Session // access token -> session for SignIn
	subscribers map[int]chan *models.Session
	nextID      int

	SubscribeCalls int
	SignOutCalls   int
}

// Verify interface compliance
var (
	_ auth.Provider    = (*MockAuthProvider)(nil)
	_ auth.TokenSignIn = (*MockAuthProvider)(nil)
)

func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		Tokens:      make(map[string]*models.Session),
		subscribers: make(map[int]chan *models.Session),
	}
}

func (m *MockAuthProvider) CurrentSession(ctx context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Current, m.CurrentErr
}

func (m *MockAuthProvider) Subscribe() (<-chan *models.Session, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubscribeCalls++
	id := m.nextID
	m.nextID++
	ch := make(chan *models.Session, 8)
	m.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subscribers, id)
			close(ch)
		})
	}
}

func (m *MockAuthProvider) SignIn(ctx context.Context, token string) (*models.Session, error) {
	m.mu.Lock()
	session, ok := m.Tokens[token]
	m.mu.Unlock()
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	m.Emit(session)
	return session, nil
}

func (m *MockAuthProvider) SignOut(ctx context.Context) error {
	m.mu.Lock()
	m.SignOutCalls++
	err := m.SignOutErr
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.Emit(nil)
	return nil
}

// Emit pushes an auth state change to every subscriber
func (m *MockAuthProvider) Emit(session *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Current = session
	for _, ch := range m.subscribers {
		ch <- session
	}
}

// Subscribers returns the number of registered listeners
func (m *MockAuthProvider) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

// MockPreferenceStore keeps preferences in memory
type MockPreferenceStore struct {
	mu       sync.Mutex
	Dark     bool
	SetError error
	SetCalls int
}

func NewMockPreferenceStore() *MockPreferenceStore {
	return &MockPreferenceStore{}
}

func (m *MockPreferenceStore) DarkMode(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Dark
}

func (m *MockPreferenceStore) SetDarkMode(ctx context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetError != nil {
		return m.SetError
	}
	m.Dark = enabled
	return nil
}

// MockFetcher returns canned articles per category
type MockFetcher struct {
	mu       sync.Mutex
	Articles map[models.Category][]models.Article
	Err      error
	Calls    []models.Category

	// FetchFunc, when set, runs before the default behaviour;
	// a non-nil error fails the fetch
	FetchFunc func(ctx context.Context, category models.Category) error
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Articles: make(map[models.Category][]models.Article),
	}
}

// ErrMockFetch is a generic upstream failure
var ErrMockFetch = errors.New("mock fetch failure")

func (m *MockFetcher) Fetch(ctx context.Context, category models.Category) ([]models.Article, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, category)
	fn := m.FetchFunc
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, category); err != nil {
			return []models.Article{}, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return []models.Article{}, m.Err
	}
	articles := m.Articles[category]
	if articles == nil {
		articles = []models.Article{}
	}
	return articles, nil
}

// MockHealthChecker reports a fixed database health
type MockHealthChecker struct {
	mu    sync.Mutex
	Err   error
	Calls int
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.Err
}
