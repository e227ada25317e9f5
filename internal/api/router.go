package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/service"
	"github.com/sports-central-api/internal/validation"
	"github.com/sports-central-api/pkg/logger"
)

const (
	requestIDHeader = "X-Request-ID"

	// storeTimeout bounds handler calls into the remote store
	storeTimeout = 10 * time.Second

	// healthTimeout bounds the database ping behind /health
	healthTimeout = 2 * time.Second
)

// HealthChecker reports whether the remote store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, db HealthChecker, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	validator := validation.NewValidator()
	articleHandler := NewArticleHandler(services, validator, log)
	bookmarkHandler := NewBookmarkHandler(services, validator, log)
	sessionHandler := NewSessionHandler(services, validator, log)
	shareHandler := NewShareHandler(services, validator, log)

	// Health check
	router.GET("/health", healthCheck(db, log))
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		v1.GET("/categories", articleHandler.ListCategories)
		v1.GET("/articles", articleHandler.ListArticles)

		// Feed endpoints
		feed := v1.Group("/feed")
		{
			feed.GET("", articleHandler.GetFeed)
			feed.PUT("/category", articleHandler.SelectCategory)
			feed.PUT("/query", articleHandler.SetQuery)
		}

		// Bookmark endpoints
		bookmarks := v1.Group("/bookmarks")
		{
			bookmarks.GET("", bookmarkHandler.ListBookmarks)
			bookmarks.GET("/status", bookmarkHandler.GetStatus)
			bookmarks.POST("/toggle", bookmarkHandler.Toggle)
		}

		// Session endpoints
		session := v1.Group("/session")
		{
			session.GET("", sessionHandler.GetSession)
			session.POST("", sessionHandler.SignIn)
			session.DELETE("", sessionHandler.SignOut)
		}

		// Preference endpoints
		prefs := v1.Group("/preferences")
		{
			prefs.GET("", sessionHandler.GetPreferences)
			prefs.PUT("/dark-mode", sessionHandler.SetDarkMode)
			prefs.POST("/dark-mode/toggle", sessionHandler.ToggleDarkMode)
		}

		// Share endpoints
		share := v1.Group("/share")
		{
			share.POST("", shareHandler.Links)
			share.POST("/copy", shareHandler.Copy)
		}

		v1.GET("/notifications", shareHandler.Notifications)
	}

	return router
}

// healthCheck returns the health status, 503 when the database is unreachable
func healthCheck(db HealthChecker, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := contextWithTimeout(c, healthTimeout)
		defer cancel()

		status, database, code := "healthy", "healthy", http.StatusOK
		if err := db.HealthCheck(ctx); err != nil {
			log.Warn().Err(err).Msg("Database health check failed")
			status, database, code = "unhealthy", "unhealthy", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"database":  database,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
		})
	}
}

// metricsHandler returns bookmark and feed metrics
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := contextWithTimeout(c, storeTimeout)
		defer cancel()

		stored, err := services.BookmarkStore.Count(ctx)
		if err != nil {
			stored = -1
		}
		snapshot := services.Feed.Snapshot()
		_, signedIn := services.Session.UserID()

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"bookmarks": stored,
			},
			"session": gin.H{
				"signed_in": signedIn,
				"bookmarks": services.Bookmarks.Count(),
			},
			"feed": gin.H{
				"category":   snapshot.Category,
				"loading":    snapshot.Loading,
				"generation": snapshot.Generation,
				"articles":   snapshot.Total,
			},
			"notifications_pending": services.Notifications.Pending(),
			"timestamp":             time.Now().Format(time.RFC3339),
		})
	}
}

// requestIDMiddleware tags each request with an id, reusing the caller's when present
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString("request_id")).
					Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}

// respondValidation writes a 400 with the validation details
func respondValidation(c *gin.Context, errs []validation.ValidationError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "validation failed",
		"details": errs,
	})
}
