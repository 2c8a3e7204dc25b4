package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRateLimiter_IsAllowed(t *testing.T) {
	_, client := newTestRedis(t)
	limiter := NewRelationRateLimiter(client, 2)
	ctx := context.Background()

	allowed, remaining, _, err := limiter.IsAllowed(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	allowed, remaining, _, err = limiter.IsAllowed(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _, err = limiter.IsAllowed(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, _, _, err = limiter.IsAllowed(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, allowed)

	left, _, err := limiter.GetRemainingRequests(ctx, "user-3")
	require.NoError(t, err)
	assert.Equal(t, 2, left)
}

func TestRateLimiter_Middleware(t *testing.T) {
	_, client := newTestRedis(t)
	limiter := NewRelationRateLimiter(client, 1)
	userID := uuid.New()

	router := gin.New()
	router.POST("/favorite",
		func(c *gin.Context) { c.Set("user_id", userID) },
		limiter.RateLimitMiddleware(),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/favorite", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, strconv.Itoa(1), w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/favorite", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiter_FailsOpenWhenRedisIsDown(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := NewRelationRateLimiter(client, 1)
	mr.Close()

	router := gin.New()
	router.POST("/favorite",
		func(c *gin.Context) { c.Set("user_id", uuid.New()) },
		limiter.RateLimitMiddleware(),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/favorite", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestRateLimiter_RequiresUser(t *testing.T) {
	_, client := newTestRedis(t)
	limiter := NewRelationRateLimiter(client, 1)

	router := gin.New()
	router.POST("/favorite", limiter.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/favorite", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
