package postgres

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlMultipartUploadRepository struct {
	db SQLQuerier
}

// NewSQLMultipartUploadRepository creates a new sqlMultipartUploadRepository
func NewSQLMultipartUploadRepository(db SQLQuerier) port.MultipartUploadRepository {
	return &sqlMultipartUploadRepository{db: db}
}

// Create creates the multipart child record of a session
func (s *sqlMultipartUploadRepository) Create(ctx context.Context, mp domain.MultipartUpload) error {
	query := `
		INSERT INTO multipart_upload (session_id, provider_upload_id, part_size, total_parts, status)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query, mp.SessionID, mp.ProviderUploadID, mp.PartSize, mp.TotalParts, mp.Status)
	if err != nil {
		return fmt.Errorf("error inserting multipart upload: %w", err)
	}
	return nil
}

func (s *sqlMultipartUploadRepository) FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.MultipartUpload, error) {
	query := `
		SELECT session_id, provider_upload_id, part_size, total_parts, status
		FROM multipart_upload
		WHERE session_id = $1`

	var mp domain.MultipartUpload
	var status string
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(
		&mp.SessionID,
		&mp.ProviderUploadID,
		&mp.PartSize,
		&mp.TotalParts,
		&status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	mp.Status = domain.MultipartStatus(status)

	partsQuery := `
		SELECT part_number, etag, size
		FROM upload_part
		WHERE session_id = $1
		ORDER BY part_number`

	rows, err := s.db.QueryContext(ctx, partsQuery, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var part domain.CompletedPart
		if err := rows.Scan(&part.PartNumber, &part.ETag, &part.Size); err != nil {
			return nil, err
		}
		mp.Parts = append(mp.Parts, part)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &mp, nil
}

// AddPart inserts one completed part. The unique constraint on
// (session_id, part_number) backs the duplicate-part guarantee under
// concurrent marking.
func (s *sqlMultipartUploadRepository) AddPart(ctx context.Context, sessionID uuid.UUID, part domain.CompletedPart) error {
	query := `
		INSERT INTO upload_part (session_id, part_number, etag, size)
		VALUES ($1, $2, $3, $4)`

	_, err := s.db.ExecContext(ctx, query, sessionID, part.PartNumber, part.ETag, part.Size)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("part %d: %w", part.PartNumber, domain.ErrDuplicatePart)
		}
		return fmt.Errorf("error inserting upload part: %w", err)
	}
	return nil
}

// UpdateStatus updates the multipart status
func (s *sqlMultipartUploadRepository) UpdateStatus(ctx context.Context, sessionID uuid.UUID, status domain.MultipartStatus) error {
	query := `UPDATE multipart_upload SET status = $1 WHERE session_id = $2`

	result, err := s.db.ExecContext(ctx, query, status, sessionID)
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
