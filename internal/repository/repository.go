package repository

import (
	"context"
	"errors"

	"github.com/sports-central-api/internal/database"
	"github.com/sports-central-api/internal/models"
)

// ErrDuplicateBookmark is returned when (user_id, article_id) already exists
var ErrDuplicateBookmark = errors.New("bookmark already exists")

// BookmarkRepository defines the interface for bookmark data operations
type BookmarkRepository interface {
	ListArticleIDs(ctx context.Context, userID string) ([]string, error)
	Insert(ctx context.Context, userID, articleID string) (*models.Bookmark, error)
	Delete(ctx context.Context, userID, articleID string) error
	Count(ctx context.Context) (int, error)
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Bookmark BookmarkRepository
	Profile  ProfileRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Bookmark: NewBookmarkRepo(db),
		Profile:  NewProfileRepo(db),
	}
}
