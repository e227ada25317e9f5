package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/auth"
	"github.com/sports-central-api/internal/models"
	"github.com/sports-central-api/internal/service"
	"github.com/sports-central-api/internal/validation"
)

// SessionHandler handles session and preference endpoints
type SessionHandler struct {
	services  *service.Services
	validator *validation.Validator
	log       zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(services *service.Services, validator *validation.Validator, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		services:  services,
		validator: validator,
		log:       log.With().Str("handler", "session").Logger(),
	}
}

// GetSession handles GET /v1/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionResponse(c, h.services.Session.Session()))
}

// SignIn handles POST /v1/session
func (h *SessionHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "access_token is required"})
		return
	}
	if errs := h.validator.ValidateSignIn(&req); len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	ctx, cancel := contextWithTimeout(c, storeTimeout)
	defer cancel()

	session, err := h.services.Session.SignIn(ctx, req.AccessToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
		case errors.Is(err, service.ErrSignInUnsupported):
			c.JSON(http.StatusNotImplemented, gin.H{"error": "sign in is handled by the auth provider"})
		default:
			h.log.Error().Err(err).Msg("Sign in failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
		}
		return
	}

	c.JSON(http.StatusOK, h.sessionResponse(c, session))
}

// SignOut handles DELETE /v1/session
func (h *SessionHandler) SignOut(c *gin.Context) {
	if err := h.services.Session.SignOut(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to sign out"})
		return
	}
	c.JSON(http.StatusOK, models.SessionResponse{SignedIn: false})
}

// GetPreferences handles GET /v1/preferences
func (h *SessionHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, models.Preferences{DarkMode: h.services.Session.DarkMode()})
}

// SetDarkMode handles PUT /v1/preferences/dark-mode
func (h *SessionHandler) SetDarkMode(c *gin.Context) {
	var req models.DarkModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dark_mode is required"})
		return
	}

	if err := h.services.Session.SetDarkMode(c.Request.Context(), *req.DarkMode); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preference"})
		return
	}
	c.JSON(http.StatusOK, models.Preferences{DarkMode: *req.DarkMode})
}

// ToggleDarkMode handles POST /v1/preferences/dark-mode/toggle
func (h *SessionHandler) ToggleDarkMode(c *gin.Context) {
	dark, err := h.services.Session.ToggleDarkMode(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preference"})
		return
	}
	c.JSON(http.StatusOK, models.Preferences{DarkMode: dark})
}

func (h *SessionHandler) sessionResponse(c *gin.Context, session *models.Session) models.SessionResponse {
	if session == nil {
		return models.SessionResponse{SignedIn: false}
	}

	resp := models.SessionResponse{SignedIn: true, Session: session}

	ctx, cancel := contextWithTimeout(c, storeTimeout)
	defer cancel()

	profile, err := h.services.Profiles.GetByID(ctx, session.UserID)
	if err != nil {
		// The header falls back to the email without a profile
		h.log.Warn().Err(err).Str("user_id", session.UserID).Msg("Failed to load profile")
	}
	resp.Profile = profile
	return resp
}
