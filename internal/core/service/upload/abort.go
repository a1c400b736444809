package upload

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"time"
)

// Abort cancels a session. The provider-side abort is fire-and-forget: a
// failed cleanup must not block marking the session terminal.
func (u *uploadService) Abort(ctx context.Context, sessionKey string) error {

	session, err := u.findActiveSession(ctx, sessionKey)
	if err != nil {
		return err
	}

	var mp *domain.MultipartUpload
	if session.UploadType == domain.UploadTypeMultipart {
		mp, err = u.uow.MultipartUploadRepo().FindBySessionID(ctx, session.ID)
		if err != nil {
			return err
		}
	}

	if err := session.Fail("aborted by client", time.Now()); err != nil {
		return err
	}

	txErr := u.uow.Execute(ctx, func(uow port.UnitOfWork) error {

		if err := uow.UploadSessionRepo().Update(ctx, *session); err != nil {
			return err
		}

		if mp != nil {
			return uow.MultipartUploadRepo().UpdateStatus(ctx, session.ID, domain.MultipartStatusAborted)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	if mp != nil {
		if abortErr := u.storage.AbortMultipartUpload(ctx, session.StorageKey, mp.ProviderUploadID); abortErr != nil {
			u.logger.Warn("failed to abort provider multipart upload", "storage_key", session.StorageKey, "error", abortErr)
		}
	}

	return nil
}

// GetSession returns the session and, for multipart sessions, its child record
func (u *uploadService) GetSession(ctx context.Context, sessionKey string) (*domain.UploadSession, *domain.MultipartUpload, error) {

	session, err := u.uow.UploadSessionRepo().FindBySessionKey(ctx, sessionKey)
	if err != nil {
		return nil, nil, err
	}

	var mp *domain.MultipartUpload
	if session.UploadType == domain.UploadTypeMultipart {
		mp, err = u.uow.MultipartUploadRepo().FindBySessionID(ctx, session.ID)
		if err != nil {
			return nil, nil, err
		}
	}

	return session, mp, nil
}
