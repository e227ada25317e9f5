package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/models"
	"github.com/sports-central-api/internal/news"
	"github.com/sports-central-api/internal/service"
	"github.com/sports-central-api/internal/validation"
)

// ArticleHandler handles category, article and feed endpoints
type ArticleHandler struct {
	services  *service.Services
	validator *validation.Validator
	log       zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, validator *validation.Validator, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services:  services,
		validator: validator,
		log:       log.With().Str("handler", "articles").Logger(),
	}
}

// ListCategories handles GET /v1/categories
func (h *ArticleHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": models.SelectableCategories,
		"selected":   h.services.Feed.State().Category,
	})
}

// ListArticles handles GET /v1/articles?category=&q=
// It fetches and filters without touching the feed state.
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	category, errs := h.validator.ValidateCategory(c.Query("category"))
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}
	query := c.Query("q")
	if errs := h.validator.ValidateQuery(query); len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	articles, err := h.services.Articles.Fetch(c.Request.Context(), category)
	resp := models.ArticleListResponse{
		Category: category,
		Query:    query,
		Total:    len(articles),
	}
	if err != nil {
		h.log.Warn().Err(err).Str("category", string(category)).Msg("Article fetch failed")
		resp.Total = 0
		resp.Articles = []models.ArticleView{}
		resp.Error = "Failed to load news"
		c.JSON(http.StatusOK, resp)
		return
	}

	resp.Articles = h.services.Annotate(news.Filter(articles, query))
	resp.Count = len(resp.Articles)
	c.JSON(http.StatusOK, resp)
}

// GetFeed handles GET /v1/feed
func (h *ArticleHandler) GetFeed(c *gin.Context) {
	c.JSON(http.StatusOK, h.feedResponse(nil))
}

// SelectCategory handles PUT /v1/feed/category
func (h *ArticleHandler) SelectCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}
	category, errs := h.validator.ValidateCategory(req.Category)
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	// The feed is shared; a client that goes away must not fail the load.
	// The fetcher bounds it with its own timeout.
	applied, err := h.services.Feed.Select(context.WithoutCancel(c.Request.Context()), category)
	if errors.Is(err, news.ErrUnknownCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Warn().Err(err).Str("category", string(category)).Msg("Feed load failed")
	}
	if !applied {
		// A newer selection owns the feed; report its state
		h.log.Debug().Str("category", string(category)).Msg("Feed selection superseded")
		c.JSON(http.StatusOK, h.feedResponse(nil))
		return
	}
	c.JSON(http.StatusOK, h.feedResponse(err))
}

// SetQuery handles PUT /v1/feed/query
func (h *ArticleHandler) SetQuery(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errs := h.validator.ValidateQuery(req.Query); len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	h.services.Feed.SetQuery(req.Query)
	c.JSON(http.StatusOK, h.feedResponse(nil))
}

func (h *ArticleHandler) feedResponse(fetchErr error) gin.H {
	snapshot := h.services.Feed.Snapshot()
	resp := gin.H{
		"category":   snapshot.Category,
		"query":      snapshot.Query,
		"loading":    snapshot.Loading,
		"generation": snapshot.Generation,
		"total":      snapshot.Total,
		"count":      len(snapshot.Articles),
		"articles":   h.services.Annotate(snapshot.Articles),
	}
	if fetchErr != nil {
		resp["error"] = "Failed to load news"
	}
	return resp
}
