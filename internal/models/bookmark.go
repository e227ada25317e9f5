package models

import (
	"time"
)

// Bookmark represents a row of the bookmarks table.
// (UserID, ArticleID) is unique.
type Bookmark struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ArticleID string    `json:"article_id" db:"article_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ToggleRequest is the body of a bookmark toggle
type ToggleRequest struct {
	ArticleID string `json:"article_id" binding:"required"`
}

// ToggleResponse reports the bookmark state after a confirmed toggle
type ToggleResponse struct {
	ArticleID  string `json:"article_id"`
	Bookmarked bool   `json:"bookmarked"`
}
