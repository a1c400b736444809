package upload

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InitiateMultipart creates the provider-side multipart upload and persists
// the session with its child record. The provider call happens before the
// transaction; if persistence fails the provider upload is aborted so no
// orphaned storage resource is left behind.
func (u *uploadService) InitiateMultipart(ctx context.Context, tenantID, fileName, contentType string, fileSize, partSize int64) (*domain.UploadSession, int, error) {

	if fileSize <= 0 {
		return nil, 0, domain.ErrInvalidFileSize
	}
	if fileSize > u.cfg.MultipartUploadMaxSize {
		return nil, 0, domain.ErrFileSizeTooBig
	}
	if partSize <= 0 {
		partSize = u.cfg.DefaultPartSize
	}

	now := time.Now()
	session := domain.UploadSession{
		ID:          uuid.New(),
		SessionKey:  uuid.NewString(),
		TenantID:    tenantID,
		FileName:    fileName,
		FileSize:    fileSize,
		ContentType: contentType,
		UploadType:  domain.UploadTypeMultipart,
		Status:      domain.UploadSessionStatusInitiated,
		ExpiresAt:   now.Add(u.cfg.MultipartSessionTTL),
		CreatedAt:   now,
	}
	session.StorageKey = storageKeyFor(tenantID, session.ID)

	providerUploadID, err := u.storage.CreateMultipartUpload(ctx, session.StorageKey, contentType)
	if err != nil {
		return nil, 0, fmt.Errorf("could not create provider multipart upload: %w", err)
	}

	totalParts := domain.TotalPartsFor(fileSize, partSize)

	txErr := u.uow.Execute(ctx, func(uow port.UnitOfWork) error {

		if err := uow.UploadSessionRepo().Create(ctx, session); err != nil {
			return err
		}

		return uow.MultipartUploadRepo().Create(ctx, domain.MultipartUpload{
			SessionID:        session.ID,
			ProviderUploadID: providerUploadID,
			PartSize:         partSize,
			TotalParts:       totalParts,
			Status:           domain.MultipartStatusInProgress,
		})
	})
	if txErr != nil {
		if abortErr := u.storage.AbortMultipartUpload(ctx, session.StorageKey, providerUploadID); abortErr != nil {
			u.logger.Error("failed to abort provider upload after persistence failure", "storage_key", session.StorageKey, "error", abortErr)
		}
		return nil, 0, fmt.Errorf("could not initiate multipart upload: %w", txErr)
	}

	u.trackExpiry(ctx, &session)

	return &session, totalParts, nil
}
