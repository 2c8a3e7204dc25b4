package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

// HealthHandler reports whether the API and its database are reachable.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := database.HealthCheck(c.Request.Context(), h.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "database unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Foodgram API is running",
		"version": "v1.0.0",
	})
}

func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)
	router.GET("/api/health", h.HealthCheck)
}

// uuidParam parses the path parameter name, responding 400 if it is not a uuid.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		middleware.RespondWithError(c, models.NewValidationError(name+" must be a valid uuid"))
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user, responding 401 when there is none.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		middleware.RespondWithError(c, models.NewUnauthorizedError("authentication required"))
		return uuid.Nil, false
	}
	return userID, true
}

// pageFromQuery reads ?limit=&page=&recipes_limit=; page is 1-based.
func pageFromQuery(c *gin.Context) service.PageRequest {
	limit := queryInt(c, "limit", service.DefaultPageSize)
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = service.DefaultPageSize
	}
	return service.PageRequest{
		Limit:        limit,
		Offset:       (page - 1) * limit,
		RecipesLimit: queryInt(c, "recipes_limit", 0),
	}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func queryFlag(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "1", "true", "True":
		return true
	}
	return false
}
