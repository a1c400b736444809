package port

import (
	"blobvault/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// UploadSessionRepository is an interface to interact with upload session storage
type UploadSessionRepository interface {
	Create(ctx context.Context, session domain.UploadSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	FindBySessionKey(ctx context.Context, sessionKey string) (*domain.UploadSession, error)
	FindAllExpired(ctx context.Context, now time.Time, limit int) ([]domain.UploadSession, error)
	Update(ctx context.Context, session domain.UploadSession) error
}

// MultipartUploadRepository is an interface to interact with the multipart child records
type MultipartUploadRepository interface {
	Create(ctx context.Context, mp domain.MultipartUpload) error
	FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.MultipartUpload, error)
	AddPart(ctx context.Context, sessionID uuid.UUID, part domain.CompletedPart) error
	UpdateStatus(ctx context.Context, sessionID uuid.UUID, status domain.MultipartStatus) error
}

// UploadService is an interface to define the upload session lifecycle
type UploadService interface {
	InitiateSingle(ctx context.Context, tenantID, fileName, contentType string, fileSize int64) (*domain.UploadSession, string, map[string]string, error)
	InitiateMultipart(ctx context.Context, tenantID, fileName, contentType string, fileSize, partSize int64) (*domain.UploadSession, int, error)
	MarkPartUploaded(ctx context.Context, sessionKey string, partNumber int, etag string, size int64) error
	GetPresignedParts(ctx context.Context, sessionKey string, partNumbers []int) ([]domain.UploadPart, error)
	CompleteSingle(ctx context.Context, sessionKey string, observedSize int64, etag string) (*domain.Asset, error)
	CompleteMultipart(ctx context.Context, sessionKey string, observedSize int64, etag string) (*domain.Asset, error)
	Abort(ctx context.Context, sessionKey string) error
	GetSession(ctx context.Context, sessionKey string) (*domain.UploadSession, *domain.MultipartUpload, error)
}
