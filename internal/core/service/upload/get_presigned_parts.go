package upload

import (
	"blobvault/internal/core/domain"
	"context"
)

// GetPresignedParts returns presigned PUT urls for the requested part numbers
func (u *uploadService) GetPresignedParts(ctx context.Context, sessionKey string, partNumbers []int) ([]domain.UploadPart, error) {

	session, err := u.findActiveSession(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if session.UploadType != domain.UploadTypeMultipart {
		return nil, domain.ErrNotMultipart
	}

	mp, err := u.uow.MultipartUploadRepo().FindBySessionID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	parts := make([]domain.UploadPart, 0, len(partNumbers))
	for _, n := range partNumbers {
		if n < 1 || n > mp.TotalParts {
			return nil, domain.ErrPartNumberOutOfRange
		}

		url, headers, expiresAt, err := u.storage.GeneratePresignedPartURL(ctx, session.StorageKey, mp.ProviderUploadID, n)
		if err != nil {
			return nil, err
		}
		parts = append(parts, domain.UploadPart{
			PartNumber:   n,
			PresignedURL: url,
			Headers:      headers,
			ExpiresAt:    expiresAt,
		})
	}

	return parts, nil
}
