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

const uploadSessionColumns = `id, session_key, tenant_id, file_name, file_size, content_type, upload_type,
		storage_key, status, failure_reason, expires_at, created_at, updated_at, completed_at, failed_at`

type sqlUploadSessionRepository struct {
	db SQLQuerier
}

// NewSQLUploadSessionRepository creates a new sqlUploadSessionRepository
func NewSQLUploadSessionRepository(db SQLQuerier) port.UploadSessionRepository {
	return &sqlUploadSessionRepository{db: db}
}

// Create creates an upload session
func (s *sqlUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	query := `
		INSERT INTO upload_session (
			id, session_key, tenant_id, file_name, file_size, content_type, upload_type,
			storage_key, status, expires_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.SessionKey,
		session.TenantID,
		session.FileName,
		session.FileSize,
		session.ContentType,
		session.UploadType,
		session.StorageKey,
		session.Status,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("session %s: %w", session.SessionKey, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("error inserting upload session: %w", err)
	}
	return nil
}

func (s *sqlUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	query := `SELECT ` + uploadSessionColumns + ` FROM upload_session WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *sqlUploadSessionRepository) FindBySessionKey(ctx context.Context, sessionKey string) (*domain.UploadSession, error) {
	query := `SELECT ` + uploadSessionColumns + ` FROM upload_session WHERE session_key = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, sessionKey))
}

func (s *sqlUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time, limit int) ([]domain.UploadSession, error) {
	query := `
		SELECT ` + uploadSessionColumns + `
		FROM upload_session
		WHERE status IN ('INITIATED', 'IN_PROGRESS') AND expires_at < $1
		ORDER BY expires_at
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.UploadSession
	for rows.Next() {
		var row dbUploadSession
		if err := row.scan(rows.Scan); err != nil {
			return nil, err
		}
		sessions = append(sessions, *row.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Update persists the mutable fields of a session
func (s *sqlUploadSessionRepository) Update(ctx context.Context, session domain.UploadSession) error {
	query := `
		UPDATE upload_session
		SET status = $1, failure_reason = $2, expires_at = $3, completed_at = $4, failed_at = $5,
		    file_size = $6, updated_at = now()
		WHERE id = $7`

	result, err := s.db.ExecContext(
		ctx,
		query,
		session.Status,
		nullString(session.FailureReason),
		session.ExpiresAt,
		session.CompletedAt,
		session.FailedAt,
		session.FileSize,
		session.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *sqlUploadSessionRepository) scanOne(row *sql.Row) (*domain.UploadSession, error) {
	var dbRow dbUploadSession
	if err := dbRow.scan(row.Scan); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return dbRow.ToDomain(), nil
}

type dbUploadSession struct {
	ID            uuid.UUID
	SessionKey    string
	TenantID      string
	FileName      string
	FileSize      int64
	ContentType   string
	UploadType    string
	StorageKey    string
	Status        string
	FailureReason sql.NullString
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
	FailedAt      *time.Time
}

func (r *dbUploadSession) scan(scan func(dest ...any) error) error {
	return scan(
		&r.ID,
		&r.SessionKey,
		&r.TenantID,
		&r.FileName,
		&r.FileSize,
		&r.ContentType,
		&r.UploadType,
		&r.StorageKey,
		&r.Status,
		&r.FailureReason,
		&r.ExpiresAt,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.CompletedAt,
		&r.FailedAt,
	)
}

// ToDomain converts db obj to domain
func (r *dbUploadSession) ToDomain() *domain.UploadSession {
	return &domain.UploadSession{
		ID:            r.ID,
		SessionKey:    r.SessionKey,
		TenantID:      r.TenantID,
		FileName:      r.FileName,
		FileSize:      r.FileSize,
		ContentType:   r.ContentType,
		UploadType:    domain.UploadType(r.UploadType),
		StorageKey:    r.StorageKey,
		Status:        domain.UploadSessionStatus(r.Status),
		FailureReason: r.FailureReason.String,
		ExpiresAt:     r.ExpiresAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		CompletedAt:   r.CompletedAt,
		FailedAt:      r.FailedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
