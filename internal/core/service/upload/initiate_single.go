package upload

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InitiateSingle creates an INITIATED session and returns a presigned PUT url
// for a single-shot upload
func (u *uploadService) InitiateSingle(ctx context.Context, tenantID, fileName, contentType string, fileSize int64) (*domain.UploadSession, string, map[string]string, error) {

	if fileSize <= 0 {
		return nil, "", nil, domain.ErrInvalidFileSize
	}
	if fileSize > u.cfg.SingleUploadMaxSize {
		return nil, "", nil, domain.ErrFileSizeTooBig
	}

	now := time.Now()
	session := domain.UploadSession{
		ID:          uuid.New(),
		SessionKey:  uuid.NewString(),
		TenantID:    tenantID,
		FileName:    fileName,
		FileSize:    fileSize,
		ContentType: contentType,
		UploadType:  domain.UploadTypeSingle,
		Status:      domain.UploadSessionStatusInitiated,
		ExpiresAt:   now.Add(u.cfg.SingleSessionTTL),
		CreatedAt:   now,
	}
	session.StorageKey = storageKeyFor(tenantID, session.ID)

	var presignedURL string
	var headers map[string]string

	txErr := u.uow.Execute(ctx, func(uow port.UnitOfWork) error {

		if err := uow.UploadSessionRepo().Create(ctx, session); err != nil {
			return err
		}

		var storeErr error
		presignedURL, headers, _, storeErr = u.storage.GeneratePresignedUploadURL(ctx, session.StorageKey, contentType, u.cfg.SingleSessionTTL)
		return storeErr
	})
	if txErr != nil {
		return nil, "", nil, fmt.Errorf("could not initiate single upload: %w", txErr)
	}

	u.trackExpiry(ctx, &session)

	return &session, presignedURL, headers, nil
}
