package download

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

const progressEvery = 2 * time.Second

// Process executes one download attempt. It is safe under at-least-once
// delivery: completed and exhausted downloads are skipped and a per-download
// lock keeps two workers off the same job.
func (d *downloadService) Process(ctx context.Context, downloadID uuid.UUID) error {

	lockKey := "blobvault:download:" + downloadID.String()
	acquired, err := d.lock.TryLock(ctx, lockKey, 0, d.cfg.OverallTimeout+time.Minute)
	if err != nil || !acquired {
		d.logger.Info("download locked by another worker, skipping", "download_id", downloadID)
		return nil
	}
	defer func() {
		if unlockErr := d.lock.Unlock(ctx, lockKey); unlockErr != nil {
			d.logger.Warn("failed to release download lock", "download_id", downloadID, "error", unlockErr)
		}
	}()

	dl, err := d.uow.DownloadRepo().FindByID(ctx, downloadID)
	if err != nil {
		return err
	}

	switch {
	case dl.Status == domain.DownloadStatusCompleted:
		return nil
	case dl.Status == domain.DownloadStatusFailed && !dl.CanRetry(dl.ErrorCode, d.cfg.MaxRetries):
		// a redelivered message for an exhausted job; the failure webhook
		// already fired, so do not touch the state machine again
		d.logger.Info("download terminally failed, skipping", "download_id", downloadID)
		return nil
	case dl.Status == domain.DownloadStatusDownloading:
		// a previous attempt crashed mid-flight; the redispatch owns it now
	default:
		if err := dl.Start(time.Now()); err != nil {
			return err
		}
		if err := d.uow.DownloadRepo().Update(ctx, *dl); err != nil {
			return err
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, d.cfg.OverallTimeout)
	defer cancel()

	result, err := d.fetcher.Fetch(fetchCtx, dl.SourceURL)
	if err != nil {
		return d.handleFailure(ctx, dl, classify(err))
	}
	defer result.Body.Close()

	if result.Size > d.cfg.MaxFileSize {
		result.Body.Close()
		return d.handleFailure(ctx, dl, &port.FetchError{
			Code:    domain.ErrorCodeTooLarge,
			Message: fmt.Sprintf("content length %d exceeds limit %d", result.Size, d.cfg.MaxFileSize),
		})
	}

	if err := dl.UpdateProgress(0, result.Size); err != nil {
		return err
	}

	reader := &progressReader{
		r:     io.LimitReader(result.Body, d.cfg.MaxFileSize+1),
		total: result.Size,
		onProgress: func(transferred, total int64) {
			if upErr := dl.UpdateProgress(transferred, total); upErr != nil {
				return
			}
			if upErr := d.uow.DownloadRepo().Update(ctx, *dl); upErr != nil {
				d.logger.Warn("failed to persist download progress", "download_id", dl.ID, "error", upErr)
			}
		},
	}

	etag, err := d.storage.PutObject(fetchCtx, storageKeyOf(dl), result.ContentType, reader, result.Size)
	if err != nil {
		return d.handleFailure(ctx, dl, classify(err))
	}

	if reader.count > d.cfg.MaxFileSize {
		// the source lied about (or omitted) its content length
		if delErr := d.storage.DeleteObject(ctx, storageKeyOf(dl)); delErr != nil {
			d.logger.Warn("failed to delete oversized object", "download_id", dl.ID, "error", delErr)
		}
		return d.handleFailure(ctx, dl, &port.FetchError{
			Code:    domain.ErrorCodeTooLarge,
			Message: fmt.Sprintf("stream exceeded limit %d", d.cfg.MaxFileSize),
		})
	}

	return d.completeDownload(ctx, dl, reader.count, result.ContentType, etag)
}

func storageKeyOf(dl *domain.ExternalDownload) string {
	return fmt.Sprintf("downloads/%s/%s", dl.TenantID, dl.UploadSessionID)
}

func (d *downloadService) completeDownload(ctx context.Context, dl *domain.ExternalDownload, size int64, contentType, etag string) error {

	now := time.Now()
	if err := dl.UpdateProgress(size, size); err != nil {
		return err
	}
	if err := dl.Complete(now); err != nil {
		return err
	}

	session, err := d.uow.UploadSessionRepo().FindByID(ctx, dl.UploadSessionID)
	if err != nil {
		return err
	}
	session.FileSize = size
	if err := session.Complete(now); err != nil && !errors.Is(err, domain.ErrSessionTerminal) {
		return err
	}

	asset := domain.Asset{
		ID:          uuid.New(),
		TenantID:    dl.TenantID,
		FileName:    session.FileName,
		ContentType: contentType,
		SizeBytes:   size,
		StorageKey:  session.StorageKey,
		ETag:        strings.Trim(etag, "\""),
		SourceURL:   &dl.SourceURL,
		CreatedAt:   now,
	}

	txErr := d.uow.Execute(ctx, func(uow port.UnitOfWork) error {

		if err := uow.DownloadRepo().Update(ctx, *dl); err != nil {
			return err
		}

		if err := uow.UploadSessionRepo().Update(ctx, *session); err != nil {
			return err
		}

		if err := uow.AssetRepo().Create(ctx, asset); err != nil {
			return err
		}

		return d.enqueueWebhook(ctx, uow, dl, asset.StorageKey, size, now)
	})
	if txErr != nil {
		return fmt.Errorf("could not complete download: %w", txErr)
	}

	d.logger.Info("download completed", "download_id", dl.ID, "bytes", size)
	return nil
}

// handleFailure records a failed attempt and either schedules a retry through
// a fresh outbox row or marks the job and its session terminally failed.
func (d *downloadService) handleFailure(ctx context.Context, dl *domain.ExternalDownload, fe *port.FetchError) error {

	if err := dl.Fail(fe.Code, fe.Message); err != nil {
		return err
	}

	now := time.Now()

	if dl.CanRetry(fe.Code, d.cfg.MaxRetries) {
		delay := dl.NextRetryDelay(d.backoff())
		payload, err := json.Marshal(domain.DownloadDispatchPayload{DownloadID: dl.ID})
		if err != nil {
			return err
		}

		txErr := d.uow.Execute(ctx, func(uow port.UnitOfWork) error {
			if err := uow.DownloadRepo().Update(ctx, *dl); err != nil {
				return err
			}
			return uow.OutboxRepo().Create(ctx, domain.Outbox{
				ID:            uuid.New(),
				Kind:          domain.OutboxKindDownloadDispatch,
				AggregateType: "external_download",
				AggregateID:   dl.ID,
				Payload:       payload,
				Status:        domain.OutboxStatusPending,
				MaxRetries:    d.cfg.MaxRetries,
				NextAttemptAt: now.Add(delay),
				CreatedAt:     now,
			})
		})
		if txErr != nil {
			return txErr
		}

		d.logger.Warn("download attempt failed, retry scheduled",
			"download_id", dl.ID, "error_code", fe.Code, "retry_count", dl.RetryCount, "delay", delay)
		return nil
	}

	return d.failTerminal(ctx, dl, now)
}

func (d *downloadService) failTerminal(ctx context.Context, dl *domain.ExternalDownload, now time.Time) error {

	session, err := d.uow.UploadSessionRepo().FindByID(ctx, dl.UploadSessionID)
	if err != nil {
		return err
	}
	if failErr := session.Fail(dl.ErrorMessage, now); failErr != nil && !errors.Is(failErr, domain.ErrSessionTerminal) {
		return failErr
	}

	txErr := d.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.DownloadRepo().Update(ctx, *dl); err != nil {
			return err
		}
		if err := uow.UploadSessionRepo().Update(ctx, *session); err != nil {
			return err
		}
		return d.enqueueWebhook(ctx, uow, dl, "", 0, now)
	})
	if txErr != nil {
		return txErr
	}

	d.logger.Error("download terminally failed",
		"download_id", dl.ID, "error_code", dl.ErrorCode, "retry_count", dl.RetryCount)
	return nil
}

// MarkFailedTerminal is the dead-letter escape hatch: the dispatcher calls it
// when a dispatch record exhausts its retries, regardless of download state.
func MarkFailedTerminal(ctx context.Context, uow port.UnitOfWork, downloadID uuid.UUID, message string, maxRetries int) error {

	dl, err := uow.DownloadRepo().FindByID(ctx, downloadID)
	if err != nil {
		return err
	}
	if dl.Status == domain.DownloadStatusCompleted {
		return nil
	}
	dl.MarkFailedTerminal(message, maxRetries)

	session, err := uow.UploadSessionRepo().FindByID(ctx, dl.UploadSessionID)
	if err != nil {
		return err
	}
	_ = session.Fail(message, time.Now())

	return uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.DownloadRepo().Update(ctx, *dl); err != nil {
			return err
		}
		return uow.UploadSessionRepo().Update(ctx, *session)
	})
}

func (d *downloadService) enqueueWebhook(ctx context.Context, uow port.UnitOfWork, dl *domain.ExternalDownload, storageKey string, size int64, now time.Time) error {
	if dl.WebhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(domain.WebhookNotifyPayload{
		URL:        dl.WebhookURL,
		DownloadID: dl.ID,
		Status:     string(dl.Status),
		ErrorCode:  dl.ErrorCode,
		StorageKey: storageKey,
		SizeBytes:  size,
	})
	if err != nil {
		return err
	}

	return uow.OutboxRepo().Create(ctx, domain.Outbox{
		ID:            uuid.New(),
		Kind:          domain.OutboxKindWebhookNotify,
		AggregateType: "external_download",
		AggregateID:   dl.ID,
		Payload:       payload,
		Status:        domain.OutboxStatusPending,
		MaxRetries:    d.cfg.MaxRetries,
		NextAttemptAt: now,
		CreatedAt:     now,
	})
}

// classify maps an arbitrary fetch/storage error to a FetchError
func classify(err error) *port.FetchError {
	var fe *port.FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &port.FetchError{Code: domain.ErrorCodeTimeout, Message: err.Error()}
	}
	return &port.FetchError{Code: domain.ErrorCodeStorage, Message: err.Error()}
}

// progressReader counts transferred bytes and reports progress at most once
// per progressEvery
type progressReader struct {
	r          io.Reader
	count      int64
	total      int64
	lastReport time.Time
	onProgress func(transferred, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.count += int64(n)
	if p.onProgress != nil && time.Since(p.lastReport) >= progressEvery {
		p.lastReport = time.Now()
		p.onProgress(p.count, p.total)
	}
	return n, err
}
