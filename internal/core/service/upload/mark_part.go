package upload

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
)

// MarkPartUploaded records a client-acknowledged part. The first part moves
// the session from INITIATED to IN_PROGRESS.
func (u *uploadService) MarkPartUploaded(ctx context.Context, sessionKey string, partNumber int, etag string, size int64) error {

	session, err := u.findActiveSession(ctx, sessionKey)
	if err != nil {
		return err
	}
	if session.UploadType != domain.UploadTypeMultipart {
		return domain.ErrNotMultipart
	}

	mp, err := u.uow.MultipartUploadRepo().FindBySessionID(ctx, session.ID)
	if err != nil {
		return err
	}

	part := domain.CompletedPart{PartNumber: partNumber, ETag: etag, Size: size}
	if err := mp.AddPart(part); err != nil {
		return err
	}

	return u.uow.Execute(ctx, func(uow port.UnitOfWork) error {

		if err := uow.MultipartUploadRepo().AddPart(ctx, session.ID, part); err != nil {
			return err
		}

		if session.Status == domain.UploadSessionStatusInitiated {
			if err := session.MarkInProgress(); err != nil {
				return err
			}
			return uow.UploadSessionRepo().Update(ctx, *session)
		}
		return nil
	})
}
