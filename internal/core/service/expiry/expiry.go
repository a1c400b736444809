package expiry

import (
	"blobvault/internal/config"
	"blobvault/internal/core/port"
	"log/slog"
)

// sweepLockKey serializes the fallback sweep across worker replicas. Running
// it redundantly is wasteful but not unsafe, so a lock miss skips the cycle.
const sweepLockKey = "blobvault:expiry:sweep"

type expiryService struct {
	uow     port.UnitOfWork
	storage port.ObjectStorage
	lock    port.DistributedLock
	cfg     config.UploadConfig
	logger  *slog.Logger
}

// NewExpiryService creates a new session expiration service
func NewExpiryService(uow port.UnitOfWork, storage port.ObjectStorage, lock port.DistributedLock, cfg config.UploadConfig, logger *slog.Logger) port.ExpiryService {
	return &expiryService{
		uow:     uow,
		storage: storage,
		lock:    lock,
		cfg:     cfg,
		logger:  logger,
	}
}
