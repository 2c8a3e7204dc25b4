package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes   service.IRecipeService
	shopping  service.IShoppingListService
	validator middleware.TokenValidator
}

func NewRecipeHandler(recipes service.IRecipeService, shopping service.IShoppingListService, validator middleware.TokenValidator) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		shopping:  shopping,
		validator: validator,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.validator), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.validator), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.validator), h.GetRecipe)
		recipes.POST("", middleware.AuthMiddleware(h.validator), h.CreateRecipe)
		recipes.PATCH("/:id", middleware.AuthMiddleware(h.validator), h.UpdateRecipe)
		recipes.PUT("/:id", middleware.AuthMiddleware(h.validator), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.validator), h.DeleteRecipe)
	}
}

// ListRecipes supports ?author=, repeated ?tags=<slug>, ?is_favorited=1 and
// ?is_in_shopping_cart=1. The last two only apply to authenticated viewers.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewerID, _ := middleware.UserIDFromContext(c)
	page := pageFromQuery(c)

	filter := repository.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(c, models.NewValidationError("author must be a valid uuid"))
			return
		}
		filter.AuthorID = &authorID
	}
	if viewerID != uuid.Nil {
		if queryFlag(c, "is_favorited") {
			filter.FavoritedBy = &viewerID
		}
		if queryFlag(c, "is_in_shopping_cart") {
			filter.InCartOf = &viewerID
		}
	}

	result, err := h.recipes.List(c.Request.Context(), viewerID, filter)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	viewerID, _ := middleware.UserIDFromContext(c)

	recipe, err := h.recipes.Get(c.Request.Context(), viewerID, id)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, models.NewValidationError(err.Error()))
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, recipeInput(req))
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, models.NewValidationError(err.Error()))
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, recipeInput(req))
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart sends the aggregated shopping list as a text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	file, err := h.shopping.DownloadShoppingList(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func recipeInput(req types.RecipeRequest) service.RecipeInput {
	in := service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		AuthorID:    req.Author,
		Ingredients: make([]service.IngredientAmount, 0, len(req.Ingredients)),
	}
	for _, line := range req.Ingredients {
		in.Ingredients = append(in.Ingredients, service.IngredientAmount{
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	return in
}
