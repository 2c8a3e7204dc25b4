package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

// RelationHandler exposes favorites, the shopping cart and subscriptions.
type RelationHandler struct {
	relations service.IRelationManager
	validator middleware.TokenValidator
	limiter   *middleware.RateLimiter
}

// NewRelationHandler creates a RelationHandler. limiter may be nil.
func NewRelationHandler(relations service.IRelationManager, validator middleware.TokenValidator, limiter *middleware.RateLimiter) *RelationHandler {
	return &RelationHandler{
		relations: relations,
		validator: validator,
		limiter:   limiter,
	}
}

func (h *RelationHandler) RegisterRoutes(router *gin.RouterGroup) {
	authed := middleware.AuthMiddleware(h.validator)

	recipes := router.Group("/recipes")
	{
		recipes.GET("/favorites", authed, h.List(models.FavoriteKind))
		recipes.GET("/shopping_cart", authed, h.List(models.ShoppingCartKind))
		recipes.POST("/:id/favorite", h.mutating(h.Add(models.FavoriteKind))...)
		recipes.DELETE("/:id/favorite", h.mutating(h.Remove(models.FavoriteKind))...)
		recipes.POST("/:id/shopping_cart", h.mutating(h.Add(models.ShoppingCartKind))...)
		recipes.DELETE("/:id/shopping_cart", h.mutating(h.Remove(models.ShoppingCartKind))...)
	}

	users := router.Group("/users")
	{
		users.GET("/subscriptions", authed, h.List(models.FollowKind))
		users.POST("/:id/subscribe", h.mutating(h.Add(models.FollowKind))...)
		users.DELETE("/:id/subscribe", h.mutating(h.Remove(models.FollowKind))...)
	}
}

func (h *RelationHandler) mutating(handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{middleware.AuthMiddleware(h.validator)}
	if h.limiter != nil {
		chain = append(chain, h.limiter.RateLimitMiddleware())
	}
	return append(chain, handler)
}

// Add links the current user to the target in the :id path parameter.
func (h *RelationHandler) Add(kind models.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		targetID, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		target, err := h.relations.Add(c.Request.Context(), userID, kind, targetID)
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}

		c.JSON(http.StatusCreated, target)
	}
}

func (h *RelationHandler) Remove(kind models.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		targetID, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		if err := h.relations.Remove(c.Request.Context(), userID, kind, targetID); err != nil {
			middleware.RespondWithError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (h *RelationHandler) List(kind models.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}

		page, err := h.relations.List(c.Request.Context(), userID, kind, pageFromQuery(c))
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, page)
	}
}
