package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", models.NewNotFoundError("Recipe", uuid.New()), http.StatusNotFound},
		{"relation not found", models.NewRelationNotFoundError("Favorite", uuid.New()), http.StatusNotFound},
		{"conflict", models.NewConflictError("ShoppingCart", "exists"), http.StatusConflict},
		{"validation", models.NewValidationError("bad"), http.StatusBadRequest},
		{"unauthorized", models.NewUnauthorizedError("no"), http.StatusUnauthorized},
		{"forbidden", models.NewForbiddenError("no"), http.StatusForbidden},
		{"internal", models.NewInternalError(errors.New("boom")), http.StatusInternalServerError},
		{"foreign error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestRespondWithError(t *testing.T) {
	router := gin.New()
	router.GET("/missing", func(c *gin.Context) {
		RespondWithError(c, models.NewRelationNotFoundError("Follow", uuid.New()))
	})
	router.GET("/boom", func(c *gin.Context) {
		RespondWithError(c, errors.New("database password is hunter2"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.CodeRelationNotFound, resp.Code)
	assert.Equal(t, "Follow", resp.Resource)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestErrorHandler(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/", func(c *gin.Context) {
		panic("something went wrong")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error","code":"INTERNAL_ERROR"}`, w.Body.String())
}
