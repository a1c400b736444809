package port

import (
	"blobvault/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// ExternalDownloadRepository is an interface to interact with external download storage
type ExternalDownloadRepository interface {
	Create(ctx context.Context, download domain.ExternalDownload) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ExternalDownload, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.ExternalDownload, error)
	Update(ctx context.Context, download domain.ExternalDownload) error
}

// DownloadService is an interface to define the external download lifecycle.
// Request is the synchronous, idempotent entry point; Process runs on the
// worker side when a dispatch message arrives.
type DownloadService interface {
	Request(ctx context.Context, idempotencyKey, sourceURL, tenantID, webhookURL string) (*domain.ExternalDownload, error)
	Process(ctx context.Context, downloadID uuid.UUID) error
	GetDownload(ctx context.Context, id uuid.UUID) (*domain.ExternalDownload, error)
}
