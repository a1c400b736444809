package upload

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CompleteSingle verifies the uploaded object and flips the session to
// COMPLETED. A size or etag mismatch is terminal: the client bytes are already
// written and retrying would not change the outcome.
func (u *uploadService) CompleteSingle(ctx context.Context, sessionKey string, observedSize int64, etag string) (*domain.Asset, error) {

	session, err := u.findActiveSession(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if session.UploadType != domain.UploadTypeSingle {
		return nil, fmt.Errorf("%w: session is multipart", domain.ErrInvalidTransition)
	}

	info, err := u.storage.HeadObject(ctx, session.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("object not found in storage: %w", err)
	}

	if verifyErr := verifyObject(info, session.FileSize, observedSize, etag); verifyErr != nil {
		if failErr := u.failSession(ctx, session, verifyErr.Error()); failErr != nil {
			return nil, failErr
		}
		return nil, verifyErr
	}

	return u.completeSession(ctx, session, nil, info)
}

// CompleteMultipart assembles the provider parts, verifies the result and
// flips the session to COMPLETED
func (u *uploadService) CompleteMultipart(ctx context.Context, sessionKey string, observedSize int64, etag string) (*domain.Asset, error) {

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
	if err := mp.EnsureComplete(); err != nil {
		return nil, err
	}

	if err := u.storage.CompleteMultipartUpload(ctx, session.StorageKey, mp.ProviderUploadID, mp.Parts); err != nil {
		return nil, fmt.Errorf("could not complete provider multipart upload: %w", err)
	}

	info, err := u.storage.HeadObject(ctx, session.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("object not found in storage after completion: %w", err)
	}

	if verifyErr := verifyObject(info, session.FileSize, observedSize, etag); verifyErr != nil {
		if failErr := u.failSession(ctx, session, verifyErr.Error()); failErr != nil {
			return nil, failErr
		}
		return nil, verifyErr
	}

	return u.completeSession(ctx, session, mp, info)
}

// verifyObject compares the HEAD result against the declared and observed
// size and the client-observed etag
func verifyObject(info *port.ObjectInfo, declaredSize, observedSize int64, etag string) error {
	if info.Size != declaredSize || (observedSize > 0 && info.Size != observedSize) {
		return fmt.Errorf("%w: declared %d, stored %d", domain.ErrSizeMismatch, declaredSize, info.Size)
	}
	if etag != "" && strings.Trim(etag, "\"") != strings.Trim(info.ETag, "\"") {
		return domain.ErrMismatchETag
	}
	return nil
}

func (u *uploadService) failSession(ctx context.Context, session *domain.UploadSession, reason string) error {
	if err := session.Fail(reason, time.Now()); err != nil {
		return err
	}
	return u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		return uow.UploadSessionRepo().Update(ctx, *session)
	})
}

func (u *uploadService) completeSession(ctx context.Context, session *domain.UploadSession, mp *domain.MultipartUpload, info *port.ObjectInfo) (*domain.Asset, error) {

	now := time.Now()
	if err := session.Complete(now); err != nil {
		return nil, err
	}

	asset := domain.Asset{
		ID:          uuid.New(),
		TenantID:    session.TenantID,
		FileName:    session.FileName,
		ContentType: session.ContentType,
		SizeBytes:   info.Size,
		StorageKey:  session.StorageKey,
		ETag:        strings.Trim(info.ETag, "\""),
		CreatedAt:   now,
	}

	txErr := u.uow.Execute(ctx, func(uow port.UnitOfWork) error {

		if err := uow.UploadSessionRepo().Update(ctx, *session); err != nil {
			return err
		}

		if mp != nil {
			if err := uow.MultipartUploadRepo().UpdateStatus(ctx, session.ID, domain.MultipartStatusCompleted); err != nil {
				return err
			}
		}

		return uow.AssetRepo().Create(ctx, asset)
	})
	if txErr != nil {
		return nil, fmt.Errorf("could not complete upload session: %w", txErr)
	}

	return &asset, nil
}
