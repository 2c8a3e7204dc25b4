package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPresigner struct {
	mock.Mock
}

func (m *mockPresigner) GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expiration)
	return args.String(0), args.Error(1)
}

func TestS3ImageStore_ImageURL(t *testing.T) {
	ctx := context.Background()
	presigner := new(mockPresigner)
	presigner.On("GeneratePresignedURL", ctx, "recipes/cake.jpg", time.Minute).
		Return("https://bucket.s3.amazonaws.com/recipes/cake.jpg?X-Amz-Signature=abc", nil)
	store := NewS3ImageStore(presigner, time.Minute)

	url, err := store.ImageURL(ctx, "recipes/cake.jpg")
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Signature")

	for _, key := range []string{"", "https://cdn.example.com/cake.jpg"} {
		url, err := store.ImageURL(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, key, url)
	}
	presigner.AssertNumberOfCalls(t, "GeneratePresignedURL", 1)
}

func TestS3ImageStore_PropagatesErrors(t *testing.T) {
	presigner := new(mockPresigner)
	presigner.On("GeneratePresignedURL", mock.Anything, "recipes/x.jpg", DefaultURLExpiry).
		Return("", errors.New("no credentials"))
	store := NewS3ImageStore(presigner, 0)

	_, err := store.ImageURL(context.Background(), "recipes/x.jpg")
	assert.EqualError(t, err, "no credentials")
}
