package expiry

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"errors"
	"time"
)

// Expire moves a non-terminal session to EXPIRED. Expiring an already
// terminal session is a no-op, never an error: the key listener and the
// fallback sweep may both fire for the same key.
func (e *expiryService) Expire(ctx context.Context, sessionKey string) error {

	session, err := e.uow.UploadSessionRepo().FindBySessionKey(ctx, sessionKey)
	if err != nil {
		return err
	}

	return e.expireSession(ctx, session)
}

// HandleExpiredKey is the key-expired notification callback. Errors are logged
// and swallowed: notifications are best-effort and the sweep is the safety net.
func (e *expiryService) HandleExpiredKey(ctx context.Context, sessionKey string) {
	if err := e.Expire(ctx, sessionKey); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return
		}
		e.logger.Warn("failed to expire session from key notification", "session_key", sessionKey, "error", err)
	}
}

func (e *expiryService) expireSession(ctx context.Context, session *domain.UploadSession) error {

	if !session.Expire() {
		return nil
	}

	var mp *domain.MultipartUpload
	if session.UploadType == domain.UploadTypeMultipart {
		found, err := e.uow.MultipartUploadRepo().FindBySessionID(ctx, session.ID)
		if err != nil {
			return err
		}
		if found.Status == domain.MultipartStatusInProgress {
			mp = found
		}
	}

	txErr := e.uow.Execute(ctx, func(uow port.UnitOfWork) error {

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

	// Provider cleanup is fire-and-forget: expiry must not be blocked by a
	// non-critical abort failure.
	if mp != nil {
		if err := e.storage.AbortMultipartUpload(ctx, session.StorageKey, mp.ProviderUploadID); err != nil {
			e.logger.Warn("failed to abort provider upload for expired session", "storage_key", session.StorageKey, "error", err)
		}
	}

	e.logger.Info("session expired", "session_key", session.SessionKey, "expired_at", time.Now())
	return nil
}
