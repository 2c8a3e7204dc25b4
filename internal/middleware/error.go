package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/observability"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Resource string `json:"resource,omitempty"`
}

// StatusFor maps an error to its HTTP status by AppError code.
func StatusFor(err error) int {
	switch models.CodeOf(err) {
	case models.CodeNotFound, models.CodeRelationNotFound:
		return http.StatusNotFound
	case models.CodeConflict:
		return http.StatusConflict
	case models.CodeValidation:
		return http.StatusBadRequest
	case models.CodeUnauthorized:
		return http.StatusUnauthorized
	case models.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithError writes err as a JSON error body. Internal errors are
// logged and their details withheld from the client.
func RespondWithError(c *gin.Context, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: err.Error(), Code: models.CodeOf(err)}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		resp.Error = appErr.Message
		resp.Resource = appErr.Resource
	}
	if status == http.StatusInternalServerError {
		observability.Logger.ErrorContext(c.Request.Context(), "request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		resp = ErrorResponse{Error: "Internal Server Error", Code: models.CodeInternal}
	}

	c.JSON(status, resp)
}

// ErrorHandler is a middleware that recovers from panics and returns a JSON error response
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				observability.Logger.ErrorContext(c.Request.Context(), "panic recovered",
					slog.String("path", c.Request.URL.Path),
					slog.Any("panic", rec),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					ErrorResponse{Error: "Internal Server Error", Code: models.CodeInternal})
			}
		}()
		c.Next()
	}
}
