package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

type UserHandler struct {
	users     service.IUserService
	validator middleware.TokenValidator
}

func NewUserHandler(users service.IUserService, validator middleware.TokenValidator) *UserHandler {
	return &UserHandler{users: users, validator: validator}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/me", middleware.AuthMiddleware(h.validator), h.GetMe)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.validator), h.GetUser)
		users.DELETE("/:id", middleware.AuthMiddleware(h.validator), h.DeleteUser)
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.users.Get(c.Request.Context(), userID, userID)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	viewerID, _ := middleware.UserIDFromContext(c)

	profile, err := h.users.Get(c.Request.Context(), viewerID, id)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteUser removes the caller's own account and everything it owns.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), userID, id); err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
