package port

import (
	"blobvault/internal/core/domain"
	"context"
	"io"
	"time"
)

// ObjectInfo is the result of a HEAD check against the object store
type ObjectInfo struct {
	ETag        string
	Size        int64
	ContentType string
}

// ObjectStorage is an interface to define object storage interactions
type ObjectStorage interface {
	GeneratePresignedUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, map[string]string, *time.Time, error)
	CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error)
	GeneratePresignedPartURL(ctx context.Context, key, providerUploadID string, partNumber int) (string, map[string]string, *time.Time, error)
	CompleteMultipartUpload(ctx context.Context, key, providerUploadID string, parts []domain.CompletedPart) error
	AbortMultipartUpload(ctx context.Context, key, providerUploadID string) error
	HeadObject(ctx context.Context, key string) (*ObjectInfo, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
