package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/api"
	"github.com/sports-central-api/internal/mocks"
	"github.com/sports-central-api/internal/models"
	"github.com/sports-central-api/internal/notify"
	"github.com/sports-central-api/internal/repository"
	"github.com/sports-central-api/internal/service"
)

type testEnv struct {
	router       *gin.Engine
	services     *service.Services
	bookmarkRepo *mocks.MockBookmarkRepository
	profileRepo  *mocks.MockProfileRepository
	provider     *mocks.MockAuthProvider
	prefs        *mocks.MockPreferenceStore
	fetcher      *mocks.MockFetcher
	health       *mocks.MockHealthChecker
	clipboard    []string
	clipboardErr error
}

func setupTestRouter(t *testing.T, userID string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		bookmarkRepo: mocks.NewMockBookmarkRepository(),
		profileRepo:  mocks.NewMockProfileRepository(),
		provider:     mocks.NewMockAuthProvider(),
		prefs:        mocks.NewMockPreferenceStore(),
		fetcher:      mocks.NewMockFetcher(),
		health:       &mocks.MockHealthChecker{},
	}
	if userID != "" {
		env.provider.Current = &models.Session{UserID: userID, Email: userID + "@example.com"}
	}

	repos := &repository.Repositories{
		Bookmark: env.bookmarkRepo,
		Profile:  env.profileRepo,
	}
	log := zerolog.Nop()
	notifier := notify.New(notify.DefaultCapacity, log)

	env.services = service.NewServices(repos, env.provider, env.prefs, env.fetcher, notifier, log)
	env.services.Share = service.NewShareServiceWithClipboard(notifier, func(text string) error {
		if env.clipboardErr != nil {
			return env.clipboardErr
		}
		env.clipboard = append(env.clipboard, text)
		return nil
	}, log)

	if err := env.services.Session.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start session gate: %v", err)
	}
	t.Cleanup(env.services.Session.Stop)

	env.router = api.NewRouter(env.services, env.health, log)
	gin.SetMode(gin.TestMode)
	return env
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func sampleArticles() []models.Article {
	return []models.Article{
		{ID: "https://example.com/1", URL: "https://example.com/1", Title: "Messi scores twice", Description: "Inter Miami win", Category: models.CategoryFootball},
		{ID: "https://example.com/2", URL: "https://example.com/2", Title: "Transfer window", Description: "Big MESSI rumours", Category: models.CategoryFootball},
		{ID: "https://example.com/3", URL: "https://example.com/3", Title: "Derby preview", Description: "", Category: models.CategoryFootball},
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestRouter(t, "")

	w := env.do("GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	decode(t, w, &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "sports-central-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
	if response["database"] != "healthy" {
		t.Errorf("Expected database 'healthy', got %v", response["database"])
	}
	if env.health.Calls != 1 {
		t.Errorf("Expected 1 database health check, got %d", env.health.Calls)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestHealthEndpoint_DatabaseDown(t *testing.T) {
	env := setupTestRouter(t, "")
	env.health.Err = errors.New("connection refused")

	w := env.do("GET", "/health", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}

	var response map[string]interface{}
	decode(t, w, &response)

	if response["status"] != "unhealthy" {
		t.Errorf("Expected status 'unhealthy', got %v", response["status"])
	}
	if response["database"] != "unhealthy" {
		t.Errorf("Expected database 'unhealthy', got %v", response["database"])
	}
}

func TestRequestIDPropagated(t *testing.T) {
	env := setupTestRouter(t, "")

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("Expected request id 'abc-123', got %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestRouter(t, "u1")
	env.bookmarkRepo.Seed("u1", "a1")
	env.bookmarkRepo.Seed("u2", "b1", "b2")

	w := env.do("GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	decode(t, w, &response)

	db := response["database"].(map[string]interface{})
	if db["bookmarks"].(float64) != 3 {
		t.Errorf("Expected 3 stored bookmarks, got %v", db["bookmarks"])
	}
	session := response["session"].(map[string]interface{})
	if session["signed_in"] != true {
		t.Errorf("Expected signed_in true, got %v", session["signed_in"])
	}
}

func TestListCategories(t *testing.T) {
	env := setupTestRouter(t, "")

	w := env.do("GET", "/v1/categories", nil)
	var response struct {
		Categories []string `json:"categories"`
		Selected   string   `json:"selected"`
	}
	decode(t, w, &response)

	want := []string{"All", "Football", "Basketball", "Baseball", "Hockey", "Tennis", "F1"}
	if len(response.Categories) != len(want) {
		t.Fatalf("Expected %d categories, got %v", len(want), response.Categories)
	}
	for i := range want {
		if response.Categories[i] != want[i] {
			t.Errorf("Expected category %d to be %s, got %s", i, want[i], response.Categories[i])
		}
	}
	if response.Selected != "All" {
		t.Errorf("Expected All selected, got %s", response.Selected)
	}
}

func TestListArticles_FilterAndAnnotate(t *testing.T) {
	env := setupTestRouter(t, "u1")
	env.fetcher.Articles[models.CategoryFootball] = sampleArticles()
	env.bookmarkRepo.Seed("u1", "https://example.com/2")
	if err := env.services.Bookmarks.Load(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}

	w := env.do("GET", "/v1/articles?category=Football&q=messi", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response models.ArticleListResponse
	decode(t, w, &response)

	if response.Total != 3 {
		t.Errorf("Expected total 3, got %d", response.Total)
	}
	if len(response.Articles) != 2 {
		t.Fatalf("Expected 2 filtered articles, got %d", len(response.Articles))
	}
	if response.Articles[0].ID != "https://example.com/1" || response.Articles[0].Bookmarked {
		t.Errorf("Unexpected first article: %+v", response.Articles[0])
	}
	if response.Articles[1].ID != "https://example.com/2" || !response.Articles[1].Bookmarked {
		t.Errorf("Unexpected second article: %+v", response.Articles[1])
	}
}

func TestListArticles_FetchFailure(t *testing.T) {
	env := setupTestRouter(t, "")
	env.fetcher.Err = mocks.ErrMockFetch

	w := env.do("GET", "/v1/articles", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response models.ArticleListResponse
	decode(t, w, &response)

	if response.Error == "" {
		t.Error("Expected error field")
	}
	if response.Articles == nil || len(response.Articles) != 0 {
		t.Errorf("Expected empty article list, got %v", response.Articles)
	}
}

func TestListArticles_InvalidCategory(t *testing.T) {
	env := setupTestRouter(t, "")

	w := env.do("GET", "/v1/articles?category=Cricket", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if len(env.fetcher.Calls) != 0 {
		t.Errorf("Expected no fetch, got %v", env.fetcher.Calls)
	}
}

func TestFeed_SelectAndQuery(t *testing.T) {
	env := setupTestRouter(t, "")
	env.fetcher.Articles[models.CategoryFootball] = sampleArticles()

	w := env.do("PUT", "/v1/feed/category", models.CategoryRequest{Category: "Football"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do("PUT", "/v1/feed/query", models.QueryRequest{Query: "derby"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = env.do("GET", "/v1/feed", nil)
	var response struct {
		Category string               `json:"category"`
		Query    string               `json:"query"`
		Loading  bool                 `json:"loading"`
		Total    int                  `json:"total"`
		Articles []models.ArticleView `json:"articles"`
	}
	decode(t, w, &response)

	if response.Category != "Football" || response.Query != "derby" {
		t.Errorf("Unexpected filter state: %s / %s", response.Category, response.Query)
	}
	if response.Loading {
		t.Error("Expected loading to be false")
	}
	if response.Total != 3 || len(response.Articles) != 1 {
		t.Errorf("Expected 1 of 3 articles, got %d of %d", len(response.Articles), response.Total)
	}
}

func TestFeed_SelectFailure(t *testing.T) {
	env := setupTestRouter(t, "")
	env.fetcher.Err = mocks.ErrMockFetch

	w := env.do("PUT", "/v1/feed/category", models.CategoryRequest{Category: "Tennis"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	decode(t, w, &response)
	if response["error"] != "Failed to load news" {
		t.Errorf("Expected fetch error, got %v", response["error"])
	}
	if response["loading"] != false {
		t.Errorf("Expected loading false, got %v", response["loading"])
	}
}

func TestFeed_SelectSurvivesClientDisconnect(t *testing.T) {
	env := setupTestRouter(t, "")
	env.fetcher.Articles[models.CategoryFootball] = sampleArticles()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client goes away while the fetch is outstanding
	env.fetcher.FetchFunc = func(fetchCtx context.Context, category models.Category) error {
		cancel()
		return fetchCtx.Err()
	}

	body, _ := json.Marshal(models.CategoryRequest{Category: "Football"})
	req := httptest.NewRequest("PUT", "/v1/feed/category", bytes.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(httptest.NewRecorder(), req)

	snapshot := env.services.Feed.Snapshot()
	if snapshot.Category != models.CategoryFootball {
		t.Errorf("Expected Football selected, got %s", snapshot.Category)
	}
	if snapshot.Loading {
		t.Error("Expected loading to be false")
	}
	if snapshot.Total != 3 {
		t.Errorf("Expected 3 articles kept, got %d", snapshot.Total)
	}
	if pending := env.services.Notifications.Pending(); pending != 0 {
		t.Errorf("Expected no notifications, got %d", pending)
	}
}

func TestFeed_InvalidCategory(t *testing.T) {
	env := setupTestRouter(t, "")

	w := env.do("PUT", "/v1/feed/category", models.CategoryRequest{Category: "General"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestToggleBookmark(t *testing.T) {
	env := setupTestRouter(t, "u1")
	id := "https://example.com/1"

	w := env.do("POST", "/v1/bookmarks/toggle", models.ToggleRequest{ArticleID: id})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var response models.ToggleResponse
	decode(t, w, &response)
	if !response.Bookmarked {
		t.Error("Expected article to be bookmarked")
	}
	if !env.bookmarkRepo.Has("u1", id) {
		t.Error("Expected bookmark to be stored")
	}

	w = env.do("GET", "/v1/bookmarks/status?article_id="+id, nil)
	decode(t, w, &response)
	if !response.Bookmarked {
		t.Error("Expected status to report bookmarked")
	}

	w = env.do("POST", "/v1/bookmarks/toggle", models.ToggleRequest{ArticleID: id})
	decode(t, w, &response)
	if response.Bookmarked {
		t.Error("Expected article to be removed")
	}
}

func TestToggleBookmark_SignedOut(t *testing.T) {
	env := setupTestRouter(t, "")

	w := env.do("POST", "/v1/bookmarks/toggle", models.ToggleRequest{ArticleID: "https://example.com/1"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if env.bookmarkRepo.Calls() != 0 {
		t.Errorf("Expected no store calls, got %d", env.bookmarkRepo.Calls())
	}
}

func TestToggleBookmark_StoreFailure(t *testing.T) {
	env := setupTestRouter(t, "u1")
	env.bookmarkRepo.InsertError = errors.New("connection refused")

	w := env.do("POST", "/v1/bookmarks/toggle", models.ToggleRequest{ArticleID: "https://example.com/1"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Code)
	}
	if env.services.Bookmarks.IsBookmarked("https://example.com/1") {
		t.Error("Expected bookmark set to be unchanged")
	}
}

func TestToggleBookmark_MissingArticleID(t *testing.T) {
	env := setupTestRouter(t, "u1")

	w := env.do("POST", "/v1/bookmarks/toggle", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestListBookmarks(t *testing.T) {
	env := setupTestRouter(t, "")
	env.bookmarkRepo.Seed("u1", "b", "a")
	env.provider.Emit(&models.Session{UserID: "u1"})

	// The listener applies the session asynchronously
	deadline := time.Now().Add(time.Second)
	for env.services.Bookmarks.Count() != 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	w := env.do("GET", "/v1/bookmarks", nil)
	var response struct {
		SignedIn   bool     `json:"signed_in"`
		ArticleIDs []string `json:"article_ids"`
		Count      int      `json:"count"`
	}
	decode(t, w, &response)

	if !response.SignedIn {
		t.Error("Expected signed in")
	}
	if response.Count != 2 || response.ArticleIDs[0] != "a" || response.ArticleIDs[1] != "b" {
		t.Errorf("Unexpected bookmarks: %+v", response)
	}
}

func TestSession_SignedOut(t *testing.T) {
	env := setupTestRouter(t, "")

	w := env.do("GET", "/v1/session", nil)
	var response models.SessionResponse
	decode(t, w, &response)
	if response.SignedIn || response.Session != nil {
		t.Errorf("Expected signed out, got %+v", response)
	}
}

func TestSession_SignInWithProfile(t *testing.T) {
	env := setupTestRouter(t, "")
	env.provider.Tokens["h.p.s"] = &models.Session{UserID: "u1", Email: "fan@example.com"}
	env.profileRepo.Profiles["u1"] = &models.Profile{ID: "u1", Username: "fan"}

	w := env.do("POST", "/v1/session", models.SignInRequest{AccessToken: "h.p.s"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response models.SessionResponse
	decode(t, w, &response)
	if !response.SignedIn || response.Session.UserID != "u1" {
		t.Errorf("Expected signed in as u1, got %+v", response)
	}
	if response.Profile == nil || response.Profile.Username != "fan" {
		t.Errorf("Expected profile, got %+v", response.Profile)
	}
}

func TestSession_SignInInvalidToken(t *testing.T) {
	env := setupTestRouter(t, "")

	w := env.do("POST", "/v1/session", models.SignInRequest{AccessToken: "x.y.z"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}

	w = env.do("POST", "/v1/session", models.SignInRequest{AccessToken: "opaque"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestSession_SignOut(t *testing.T) {
	env := setupTestRouter(t, "u1")
	env.bookmarkRepo.Seed("u1", "a1")
	if err := env.services.Bookmarks.Load(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}

	w := env.do("DELETE", "/v1/session", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if _, ok := env.services.Session.UserID(); ok {
		t.Error("Expected to be signed out")
	}
	if env.services.Bookmarks.Count() != 0 {
		t.Error("Expected bookmarks to be cleared")
	}
}

func TestPreferences(t *testing.T) {
	env := setupTestRouter(t, "")

	w := env.do("PUT", "/v1/preferences/dark-mode", map[string]bool{"dark_mode": true})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !env.prefs.Dark {
		t.Error("Expected dark mode to be persisted")
	}

	w = env.do("POST", "/v1/preferences/dark-mode/toggle", nil)
	var prefs models.Preferences
	decode(t, w, &prefs)
	if prefs.DarkMode {
		t.Error("Expected dark mode off after toggle")
	}

	w = env.do("GET", "/v1/preferences", nil)
	decode(t, w, &prefs)
	if prefs.DarkMode || env.prefs.Dark {
		t.Error("Expected dark mode off")
	}

	w = env.do("PUT", "/v1/preferences/dark-mode", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestShareLinks(t *testing.T) {
	env := setupTestRouter(t, "")

	w := env.do("POST", "/v1/share", models.ShareRequest{Title: "Hello World", URL: "https://x.com/a?b=1"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var links models.ShareLinks
	decode(t, w, &links)
	want := "https://twitter.com/intent/tweet?text=Hello%20World&url=https%3A%2F%2Fx.com%2Fa%3Fb%3D1"
	if links.Twitter != want {
		t.Errorf("Expected %s, got %s", want, links.Twitter)
	}

	w = env.do("POST", "/v1/share", models.ShareRequest{Title: "Hello"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestShareCopyAndNotifications(t *testing.T) {
	env := setupTestRouter(t, "")

	w := env.do("POST", "/v1/share/copy", models.ShareRequest{URL: "https://x.com/a"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(env.clipboard) != 1 || env.clipboard[0] != "https://x.com/a" {
		t.Errorf("Unexpected clipboard contents: %v", env.clipboard)
	}

	env.clipboardErr = errors.New("no clipboard")
	w = env.do("POST", "/v1/share/copy", models.ShareRequest{URL: "https://x.com/b"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}

	w = env.do("GET", "/v1/notifications", nil)
	var response struct {
		Notifications []models.Notification `json:"notifications"`
	}
	decode(t, w, &response)
	if len(response.Notifications) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(response.Notifications))
	}
	if response.Notifications[0].Message != "Link copied to clipboard!" {
		t.Errorf("Unexpected first notification: %s", response.Notifications[0].Message)
	}
	if response.Notifications[1].Message != "Failed to copy link" {
		t.Errorf("Unexpected second notification: %s", response.Notifications[1].Message)
	}

	// Drained
	w = env.do("GET", "/v1/notifications", nil)
	decode(t, w, &response)
	if len(response.Notifications) != 0 {
		t.Errorf("Expected no notifications after drain, got %d", len(response.Notifications))
	}
}
