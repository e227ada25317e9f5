package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/models"
	"github.com/sports-central-api/internal/service"
	"github.com/sports-central-api/internal/validation"
)

// BookmarkHandler handles bookmark endpoints
type BookmarkHandler struct {
	services  *service.Services
	validator *validation.Validator
	log       zerolog.Logger
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(services *service.Services, validator *validation.Validator, log zerolog.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		services:  services,
		validator: validator,
		log:       log.With().Str("handler", "bookmarks").Logger(),
	}
}

// ListBookmarks handles GET /v1/bookmarks
func (h *BookmarkHandler) ListBookmarks(c *gin.Context) {
	_, signedIn := h.services.Session.UserID()
	ids := h.services.Bookmarks.IDs()

	c.JSON(http.StatusOK, gin.H{
		"signed_in":   signedIn,
		"article_ids": ids,
		"count":       len(ids),
	})
}

// GetStatus handles GET /v1/bookmarks/status?article_id=
func (h *BookmarkHandler) GetStatus(c *gin.Context) {
	articleID := c.Query("article_id")
	if errs := h.validator.ValidateArticleID(articleID); len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	c.JSON(http.StatusOK, models.ToggleResponse{
		ArticleID:  articleID,
		Bookmarked: h.services.Bookmarks.IsBookmarked(articleID),
	})
}

// Toggle handles POST /v1/bookmarks/toggle
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	var req models.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "article_id is required"})
		return
	}
	if errs := h.validator.ValidateArticleID(req.ArticleID); len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	ctx, cancel := contextWithTimeout(c, storeTimeout)
	defer cancel()

	bookmarked, err := h.services.ToggleBookmark(ctx, req.ArticleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in to bookmark articles"})
		case errors.Is(err, service.ErrBookmarksLoading):
			c.JSON(http.StatusConflict, gin.H{"error": "bookmarks are still loading"})
		case errors.Is(err, service.ErrToggleInFlight):
			c.JSON(http.StatusConflict, gin.H{
				"error":      "bookmark update already in progress",
				"bookmarked": bookmarked,
			})
		default:
			c.JSON(http.StatusBadGateway, gin.H{
				"error":      "Failed to update bookmark",
				"bookmarked": bookmarked,
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.ToggleResponse{
		ArticleID:  req.ArticleID,
		Bookmarked: bookmarked,
	})
}
