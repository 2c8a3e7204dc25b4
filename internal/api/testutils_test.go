package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

// testAPI holds a router wired to real services over a sqlite database
type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewSQLiteDB(t)
	users := repository.NewUserRepository(db)
	recipes := repository.NewRecipeRepository(db)
	relations := repository.NewRelationRepository(db)
	auth := service.NewAuthService(users, "test-secret")

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	NewHealthHandler(db).RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	NewAuthHandler(auth).RegisterRoutes(v1)
	NewRecipeHandler(
		service.NewRecipeService(db, recipes, relations, repository.NewIngredientRepository(db), repository.NewTagRepository(db), nil),
		service.NewShoppingListService(repository.NewShoppingListRepository(db)),
		auth,
	).RegisterRoutes(v1)
	NewRelationHandler(service.NewRelationManager(db, relations, recipes, users, nil), auth, nil).RegisterRoutes(v1)
	NewUserHandler(service.NewUserService(db, users, recipes, relations), auth).RegisterRoutes(v1)
	NewCatalogHandler(
		service.NewTagService(repository.NewTagRepository(db)),
		service.NewIngredientService(repository.NewIngredientRepository(db)),
	).RegisterRoutes(v1)

	return &testAPI{router: router, db: db, auth: auth}
}

// createUserWithToken inserts a user and returns it with a valid token
func (a *testAPI) createUserWithToken(t *testing.T) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, a.db)
	token, err := a.auth.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

// PerformRequestWithToken sends body as JSON with an optional bearer token
func (a *testAPI) PerformRequestWithToken(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

