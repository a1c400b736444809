package download

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
)

// Request creates an external download job. A repeated request with the same
// idempotency key returns the existing record unchanged and creates no second
// outbox row.
func (d *downloadService) Request(ctx context.Context, idempotencyKey, sourceURL, tenantID, webhookURL string) (*domain.ExternalDownload, error) {

	existing, err := d.uow.DownloadRepo().FindByIdempotencyKey(ctx, idempotencyKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrDownloadNotFound) {
		return nil, err
	}

	parsed, err := url.Parse(sourceURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSourceURL, sourceURL)
	}

	now := time.Now()
	session := domain.UploadSession{
		ID:         uuid.New(),
		SessionKey: uuid.NewString(),
		TenantID:   tenantID,
		FileName:   fileNameFromURL(parsed),
		UploadType: domain.UploadTypeSingle,
		Status:     domain.UploadSessionStatusInitiated,
		ExpiresAt:  now.Add(d.cfg.SessionTTL),
		CreatedAt:  now,
	}
	session.StorageKey = fmt.Sprintf("downloads/%s/%s", tenantID, session.ID)

	dl := domain.ExternalDownload{
		ID:              uuid.New(),
		IdempotencyKey:  idempotencyKey,
		SourceURL:       sourceURL,
		UploadSessionID: session.ID,
		TenantID:        tenantID,
		WebhookURL:      webhookURL,
		Status:          domain.DownloadStatusInit,
		CreatedAt:       now,
	}

	payload, err := json.Marshal(domain.DownloadDispatchPayload{DownloadID: dl.ID})
	if err != nil {
		return nil, err
	}

	txErr := d.uow.Execute(ctx, func(uow port.UnitOfWork) error {

		if err := uow.UploadSessionRepo().Create(ctx, session); err != nil {
			return err
		}

		if err := uow.DownloadRepo().Create(ctx, dl); err != nil {
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
			NextAttemptAt: now,
			CreatedAt:     now,
		})
	})
	if txErr != nil {
		// a concurrent request with the same key may have won the race
		if errors.Is(txErr, domain.ErrAlreadyExists) {
			return d.uow.DownloadRepo().FindByIdempotencyKey(ctx, idempotencyKey)
		}
		return nil, fmt.Errorf("could not create external download: %w", txErr)
	}

	return &dl, nil
}

func fileNameFromURL(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "download"
	}
	return name
}
