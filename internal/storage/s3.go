package storage

import (
	"context"
	"strings"
	"time"
)

const DefaultURLExpiry = 15 * time.Minute

// Presigner signs GET URLs for stored objects. config.S3Config implements it.
type Presigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// S3ImageStore resolves recipe image keys to presigned S3 URLs.
type S3ImageStore struct {
	presigner Presigner
	expiry    time.Duration
}

func NewS3ImageStore(presigner Presigner, expiry time.Duration) *S3ImageStore {
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	return &S3ImageStore{presigner: presigner, expiry: expiry}
}

// ImageURL returns a presigned URL for key. Empty keys and keys that are
// already absolute URLs are returned unchanged.
func (s *S3ImageStore) ImageURL(ctx context.Context, key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, nil
	}
	return s.presigner.GeneratePresignedURL(ctx, key, s.expiry)
}
