package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// CatalogHandler serves the read-only tag and ingredient lists.
type CatalogHandler struct {
	tags        service.ITagService
	ingredients service.IIngredientService
}

func NewCatalogHandler(tags service.ITagService, ingredients service.IIngredientService) *CatalogHandler {
	return &CatalogHandler{tags: tags, ingredients: ingredients}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tags", h.ListTags)
	router.GET("/tags/:id", h.GetTag)
	router.GET("/ingredients", h.SearchIngredients)
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	tag, err := h.tags.Get(c.Request.Context(), id)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// SearchIngredients filters by ?name= prefix, case-insensitively.
func (h *CatalogHandler) SearchIngredients(c *gin.Context) {
	ingredients, err := h.ingredients.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}
