package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/auth"
	"github.com/sports-central-api/internal/models"
	"github.com/sports-central-api/internal/news"
	"github.com/sports-central-api/internal/notify"
	"github.com/sports-central-api/internal/repository"
)

// Services is the application state shared by the HTTP handlers.
// It is built once at startup; each field has its own update entry points.
type Services struct {
	Session       *SessionGate
	Bookmarks     *BookmarkManager
	Share         *ShareService
	Feed          *news.Feed
	Articles      news.ArticleFetcher
	Profiles      repository.ProfileRepository
	BookmarkStore repository.BookmarkRepository
	Notifications *notify.Notifier
}

// NewServices creates all services
func NewServices(
	repos *repository.Repositories,
	provider auth.Provider,
	prefs PreferenceStore,
	fetcher news.ArticleFetcher,
	notifier *notify.Notifier,
	log zerolog.Logger,
) *Services {
	bookmarks := NewBookmarkManager(repos.Bookmark, notifier, log)

	return &Services{
		Session:       NewSessionGate(provider, prefs, bookmarks, notifier, log),
		Bookmarks:     bookmarks,
		Share:         NewShareService(notifier, log),
		Feed:          news.NewFeed(fetcher, notifier, log),
		Articles:      fetcher,
		Profiles:      repos.Profile,
		BookmarkStore: repos.Bookmark,
		Notifications: notifier,
	}
}

// Annotate attaches the current user's bookmark flag to each article
func (s *Services) Annotate(articles []models.Article) []models.ArticleView {
	views := make([]models.ArticleView, len(articles))
	for i, a := range articles {
		views[i] = models.ArticleView{
			Article:    a,
			Bookmarked: s.Bookmarks.IsBookmarked(a.ID),
		}
	}
	return views
}

// ToggleBookmark toggles articleID for the signed-in user
func (s *Services) ToggleBookmark(ctx context.Context, articleID string) (bool, error) {
	userID, _ := s.Session.UserID()
	return s.Bookmarks.Toggle(ctx, userID, articleID)
}
