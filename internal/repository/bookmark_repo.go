package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sports-central-api/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

// querier is the subset of *database.DB the repositories need
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// bookmarkRepo is the concrete implementation of BookmarkRepository
type bookmarkRepo struct {
	db  querier
	now func() time.Time
}

// NewBookmarkRepo creates a new bookmark repository
func NewBookmarkRepo(db querier) BookmarkRepository {
	return &bookmarkRepo{db: db, now: time.Now}
}

// ListArticleIDs returns the article ids bookmarked by userID
func (r *bookmarkRepo) ListArticleIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT article_id FROM bookmarks WHERE user_id = $1 ORDER BY created_at", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Insert creates the (userID, articleID) bookmark
func (r *bookmarkRepo) Insert(ctx context.Context, userID, articleID string) (*models.Bookmark, error) {
	bookmark := &models.Bookmark{
		ID:        uuid.NewString(),
		UserID:    userID,
		ArticleID: articleID,
		CreatedAt: r.now(),
	}

	query := `
		INSERT INTO bookmarks (id, user_id, article_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		bookmark.ID, bookmark.UserID, bookmark.ArticleID, bookmark.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return bookmark, nil
}

// Delete removes the (userID, articleID) bookmark. Deleting a missing row is not an error.
func (r *bookmarkRepo) Delete(ctx context.Context, userID, articleID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM bookmarks WHERE user_id = $1 AND article_id = $2", userID, articleID)
	return err
}

// Count returns the total number of bookmarks
func (r *bookmarkRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookmarks").Scan(&count)
	return count, err
}

// translateError maps driver errors onto repository errors
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicateBookmark
	}
	return err
}
