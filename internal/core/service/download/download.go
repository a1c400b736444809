package download

import (
	"blobvault/internal/config"
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type downloadService struct {
	uow     port.UnitOfWork
	storage port.ObjectStorage
	fetcher port.RemoteFetcher
	lock    port.DistributedLock
	cfg     config.DownloadConfig
	logger  *slog.Logger
}

// NewDownloadService creates a new external download service
func NewDownloadService(uow port.UnitOfWork, storage port.ObjectStorage, fetcher port.RemoteFetcher, lock port.DistributedLock, cfg config.DownloadConfig, logger *slog.Logger) port.DownloadService {
	return &downloadService{
		uow:     uow,
		storage: storage,
		fetcher: fetcher,
		lock:    lock,
		cfg:     cfg,
		logger:  logger,
	}
}

func (d *downloadService) backoff() domain.BackoffPolicy {
	return domain.BackoffPolicy{
		Base:       d.cfg.BackoffBase,
		Multiplier: d.cfg.BackoffMultiplier,
		Cap:        d.cfg.BackoffCap,
	}
}

// GetDownload returns a download by id
func (d *downloadService) GetDownload(ctx context.Context, id uuid.UUID) (*domain.ExternalDownload, error) {
	return d.uow.DownloadRepo().FindByID(ctx, id)
}
