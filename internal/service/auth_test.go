package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	return service.NewAuthService(repository.NewUserRepository(db), "test-secret")
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	user, err := auth.Register(ctx, types.RegisterRequest{
		Email:     "Cook@Example.com",
		Username:  "cook",
		FirstName: "Julia",
		LastName:  "Child",
		Password:  "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	token, loggedIn, err := auth.Login(ctx, "cook@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "cook", claims.Username)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)
	valid := types.RegisterRequest{Email: "a@example.com", Username: "a", Password: "password123"}
	_, err := auth.Register(ctx, valid)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  types.RegisterRequest
		code string
	}{
		{"bad email", types.RegisterRequest{Email: "nope", Username: "b", Password: "password123"}, models.CodeValidation},
		{"missing username", types.RegisterRequest{Email: "b@example.com", Password: "password123"}, models.CodeValidation},
		{"short password", types.RegisterRequest{Email: "b@example.com", Username: "b", Password: "short"}, models.CodeValidation},
		{"duplicate email", types.RegisterRequest{Email: "a@example.com", Username: "c", Password: "password123"}, models.CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tt.req)
			assert.True(t, models.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)
	_, err := auth.Register(ctx, types.RegisterRequest{Email: "a@example.com", Username: "a", Password: "password123"})
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "a@example.com", "wrong-password")
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	_, _, err = auth.Login(ctx, "missing@example.com", "password123")
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
}

func TestAuthService_ValidateTokenRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)
	user, err := auth.Register(ctx, types.RegisterRequest{Email: "a@example.com", Username: "a", Password: "password123"})
	require.NoError(t, err)

	other := service.NewAuthService(nil, "other-secret")
	token, err := other.GenerateToken(user)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	_, err = auth.ValidateToken("not-a-token")
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
}
