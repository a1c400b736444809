package upload

import (
	"blobvault/internal/config"
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"fmt"
	"log/slog"
)

type uploadService struct {
	uow     port.UnitOfWork
	storage port.ObjectStorage
	expiry  port.ExpiryTracker
	cfg     config.UploadConfig
	logger  *slog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(uow port.UnitOfWork, storage port.ObjectStorage, expiry port.ExpiryTracker, cfg config.UploadConfig, logger *slog.Logger) port.UploadService {
	return &uploadService{
		uow:     uow,
		storage: storage,
		expiry:  expiry,
		cfg:     cfg,
		logger:  logger,
	}
}

// findActiveSession loads a session by key and rejects terminal ones with the
// matching sentinel
func (u *uploadService) findActiveSession(ctx context.Context, sessionKey string) (*domain.UploadSession, error) {
	session, err := u.uow.UploadSessionRepo().FindBySessionKey(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.UploadSessionStatusExpired {
		return nil, domain.ErrSessionExpired
	}
	if session.IsTerminal() {
		return nil, domain.ErrSessionTerminal
	}
	return session, nil
}

func storageKeyFor(tenantID string, sessionID fmt.Stringer) string {
	return fmt.Sprintf("uploads/%s/%s", tenantID, sessionID.String())
}

// trackExpiry registers the session key in the TTL store. Failure is logged
// and swallowed: the fallback sweep recovers sessions the tracker misses.
func (u *uploadService) trackExpiry(ctx context.Context, session *domain.UploadSession) {
	ttl := session.ExpiresAt.Sub(session.CreatedAt)
	if err := u.expiry.Track(ctx, session.SessionKey, ttl); err != nil {
		u.logger.Warn("failed to track session expiry", "session_key", session.SessionKey, "error", err)
	}
}
