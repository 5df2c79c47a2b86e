package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned upload URLs.
const DefaultPresignedURLExpiry = 6 * time.Minute

// FileStorage defines the object storage operations behind the upload issuer.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a single PUT
	// of exactly size bytes with the given content type to objectKey.
	GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, size int64, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error

	// PublicURL is where objectKey is readable once uploaded.
	PublicURL(objectKey string) string
}
