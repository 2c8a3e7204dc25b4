package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func setupMockedRouter(t *testing.T) (*gin.Engine, *mocks.MockRelationManager, *mocks.MockShoppingListService, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", "token").Return(&types.TokenClaims{UserID: userID, Username: "cook"}, nil)

	relations := new(mocks.MockRelationManager)
	shopping := new(mocks.MockShoppingListService)

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewRelationHandler(relations, auth, nil).RegisterRoutes(v1)
	NewRecipeHandler(nil, shopping, auth).RegisterRoutes(v1)
	return router, relations, shopping, userID
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRelationHandler_ListPassesPage(t *testing.T) {
	router, relations, _, userID := setupMockedRouter(t)
	want := service.PageRequest{Limit: 2, Offset: 4, RecipesLimit: 1}
	relations.On("List", mock.Anything, userID, models.FollowKind, want).
		Return(&service.Page[service.Target]{Count: 0, Results: []service.Target{}}, nil)

	w := serve(router, http.MethodGet, "/api/v1/users/subscriptions?limit=2&page=3&recipes_limit=1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0,"results":[]}`, w.Body.String())
	relations.AssertExpectations(t)
}

func TestRelationHandler_MapsErrors(t *testing.T) {
	router, relations, _, userID := setupMockedRouter(t)
	recipeID := uuid.New()
	relations.On("Add", mock.Anything, userID, models.ShoppingCartKind, recipeID).
		Return(nil, models.NewInternalError(errors.New("connection reset")))
	relations.On("Remove", mock.Anything, userID, models.ShoppingCartKind, recipeID).
		Return(models.NewRelationNotFoundError("ShoppingCart", recipeID))

	w := serve(router, http.MethodPost, "/api/v1/recipes/"+recipeID.String()+"/shopping_cart")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")

	w = serve(router, http.MethodDelete, "/api/v1/recipes/"+recipeID.String()+"/shopping_cart")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ShoppingCart")
}

func TestRecipeHandler_DownloadShoppingCart(t *testing.T) {
	router, _, shopping, userID := setupMockedRouter(t)
	shopping.On("DownloadShoppingList", mock.Anything, userID).Return(&service.ShoppingListFile{
		Content:     []byte("Flour (g) - 150\n"),
		ContentType: service.ShoppingListContentType,
		Filename:    service.ShoppingListFilename,
	}, nil)

	w := serve(router, http.MethodGet, "/api/v1/recipes/download_shopping_cart")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Flour (g) - 150\n", w.Body.String())
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_list.txt"`, w.Header().Get("Content-Disposition"))
}
