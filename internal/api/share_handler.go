package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/models"
	"github.com/sports-central-api/internal/service"
	"github.com/sports-central-api/internal/validation"
)

// ShareHandler handles share and notification endpoints
type ShareHandler struct {
	services  *service.Services
	validator *validation.Validator
	log       zerolog.Logger
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(services *service.Services, validator *validation.Validator, log zerolog.Logger) *ShareHandler {
	return &ShareHandler{
		services:  services,
		validator: validator,
		log:       log.With().Str("handler", "share").Logger(),
	}
}

// Links handles POST /v1/share
func (h *ShareHandler) Links(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.services.Share.Links(req.Title, req.URL))
}

// Copy handles POST /v1/share/copy
func (h *ShareHandler) Copy(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	if err := h.services.Share.Copy(req.URL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to copy link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"copied": true, "url": req.URL})
}

// Notifications handles GET /v1/notifications.
// Each notification is delivered once.
func (h *ShareHandler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.services.Notifications.Drain(),
	})
}

func (h *ShareHandler) bind(c *gin.Context) (*models.ShareRequest, bool) {
	var req models.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return nil, false
	}
	if errs := h.validator.ValidateShare(&req); len(errs) > 0 {
		respondValidation(c, errs)
		return nil, false
	}
	return &req, true
}
