package postgres

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const externalDownloadColumns = `id, idempotency_key, source_url, upload_session_id, tenant_id, webhook_url,
		status, retry_count, error_code, error_message, bytes_transferred, total_bytes,
		created_at, started_at, completed_at`

type sqlExternalDownloadRepository struct {
	db SQLQuerier
}

// NewSQLExternalDownloadRepository creates a new sqlExternalDownloadRepository
func NewSQLExternalDownloadRepository(db SQLQuerier) port.ExternalDownloadRepository {
	return &sqlExternalDownloadRepository{db: db}
}

// Create creates an external download
func (s *sqlExternalDownloadRepository) Create(ctx context.Context, download domain.ExternalDownload) error {
	query := `
		INSERT INTO external_download (
			id, idempotency_key, source_url, upload_session_id, tenant_id, webhook_url, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		download.ID,
		download.IdempotencyKey,
		download.SourceURL,
		download.UploadSessionID,
		download.TenantID,
		nullString(download.WebhookURL),
		download.Status,
		download.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("idempotency key %s: %w", download.IdempotencyKey, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("error inserting external download: %w", err)
	}
	return nil
}

func (s *sqlExternalDownloadRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ExternalDownload, error) {
	query := `SELECT ` + externalDownloadColumns + ` FROM external_download WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *sqlExternalDownloadRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.ExternalDownload, error) {
	query := `SELECT ` + externalDownloadColumns + ` FROM external_download WHERE idempotency_key = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, key))
}

// Update persists the mutable fields of a download
func (s *sqlExternalDownloadRepository) Update(ctx context.Context, download domain.ExternalDownload) error {
	query := `
		UPDATE external_download
		SET status = $1, retry_count = $2, error_code = $3, error_message = $4,
		    bytes_transferred = $5, total_bytes = $6, started_at = $7, completed_at = $8
		WHERE id = $9`

	result, err := s.db.ExecContext(
		ctx,
		query,
		download.Status,
		download.RetryCount,
		nullString(download.ErrorCode),
		nullString(download.ErrorMessage),
		download.BytesTransferred,
		download.TotalBytes,
		download.StartedAt,
		download.CompletedAt,
		download.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrDownloadNotFound
	}
	return nil
}

func (s *sqlExternalDownloadRepository) scanOne(row *sql.Row) (*domain.ExternalDownload, error) {
	var r dbExternalDownload
	err := row.Scan(
		&r.ID,
		&r.IdempotencyKey,
		&r.SourceURL,
		&r.UploadSessionID,
		&r.TenantID,
		&r.WebhookURL,
		&r.Status,
		&r.RetryCount,
		&r.ErrorCode,
		&r.ErrorMessage,
		&r.BytesTransferred,
		&r.TotalBytes,
		&r.CreatedAt,
		&r.StartedAt,
		&r.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDownloadNotFound
		}
		return nil, err
	}
	return r.ToDomain(), nil
}

type dbExternalDownload struct {
	ID               uuid.UUID
	IdempotencyKey   string
	SourceURL        string
	UploadSessionID  uuid.UUID
	TenantID         string
	WebhookURL       sql.NullString
	Status           string
	RetryCount       int
	ErrorCode        sql.NullString
	ErrorMessage     sql.NullString
	BytesTransferred int64
	TotalBytes       int64
	CreatedAt        time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
}

// ToDomain converts db obj to domain
func (r *dbExternalDownload) ToDomain() *domain.ExternalDownload {
	return &domain.ExternalDownload{
		ID:               r.ID,
		IdempotencyKey:   r.IdempotencyKey,
		SourceURL:        r.SourceURL,
		UploadSessionID:  r.UploadSessionID,
		TenantID:         r.TenantID,
		WebhookURL:       r.WebhookURL.String,
		Status:           domain.DownloadStatus(r.Status),
		RetryCount:       r.RetryCount,
		ErrorCode:        r.ErrorCode.String,
		ErrorMessage:     r.ErrorMessage.String,
		BytesTransferred: r.BytesTransferred,
		TotalBytes:       r.TotalBytes,
		CreatedAt:        r.CreatedAt,
		StartedAt:        r.StartedAt,
		CompletedAt:      r.CompletedAt,
	}
}
