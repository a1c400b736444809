package postgres

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type sqlOutboxRepository struct {
	db SQLQuerier
}

// NewSQLOutboxRepository creates a new sqlOutboxRepository
func NewSQLOutboxRepository(db SQLQuerier) port.OutboxRepository {
	return &sqlOutboxRepository{db: db}
}

// Create creates an outbox record
func (s *sqlOutboxRepository) Create(ctx context.Context, record domain.Outbox) error {
	query := `
		INSERT INTO outbox (
			id, kind, aggregate_type, aggregate_id, payload, status, retry_count, max_retries, next_attempt_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.Kind,
		record.AggregateType,
		record.AggregateID,
		record.Payload,
		record.Status,
		record.RetryCount,
		record.MaxRetries,
		record.NextAttemptAt,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting outbox record: %w", err)
	}
	return nil
}

// ClaimPending atomically flips a batch of due PENDING records to PROCESSING
// and returns them. FOR UPDATE SKIP LOCKED keeps concurrent dispatcher
// instances off each other's rows.
func (s *sqlOutboxRepository) ClaimPending(ctx context.Context, now time.Time, limit int) ([]domain.Outbox, error) {
	query := `
		UPDATE outbox
		SET status = 'PROCESSING', last_attempt_at = $1
		WHERE id IN (
			SELECT id FROM outbox
			WHERE status = 'PENDING' AND next_attempt_at <= $1
			ORDER BY created_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, aggregate_type, aggregate_id, payload, status, retry_count, max_retries, next_attempt_at, created_at, last_attempt_at`

	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Outbox
	for rows.Next() {
		var r domain.Outbox
		var status string
		if err := rows.Scan(
			&r.ID,
			&r.Kind,
			&r.AggregateType,
			&r.AggregateID,
			&r.Payload,
			&status,
			&r.RetryCount,
			&r.MaxRetries,
			&r.NextAttemptAt,
			&r.CreatedAt,
			&r.LastAttemptAt,
		); err != nil {
			return nil, err
		}
		r.Status = domain.OutboxStatus(status)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// MarkSent settles a record as delivered
func (s *sqlOutboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	return s.updateStatus(ctx, id, domain.OutboxStatusSent)
}

// MarkFailed settles a record as terminally failed
func (s *sqlOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return s.updateStatus(ctx, id, domain.OutboxStatusFailed)
}

func (s *sqlOutboxRepository) updateStatus(ctx context.Context, id uuid.UUID, status domain.OutboxStatus) error {
	query := `UPDATE outbox SET status = $1 WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrOutboxNotFound
	}
	return nil
}

// Reschedule returns a record to PENDING for a later attempt
func (s *sqlOutboxRepository) Reschedule(ctx context.Context, id uuid.UUID, retryCount int, nextAttemptAt time.Time) error {
	query := `
		UPDATE outbox
		SET status = 'PENDING', retry_count = $1, next_attempt_at = $2
		WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, retryCount, nextAttemptAt, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrOutboxNotFound
	}
	return nil
}

// ReclaimStale returns PROCESSING records whose worker crashed back to PENDING
func (s *sqlOutboxRepository) ReclaimStale(ctx context.Context, olderThan time.Time) (int, error) {
	query := `
		UPDATE outbox
		SET status = 'PENDING'
		WHERE status = 'PROCESSING' AND last_attempt_at < $1`

	result, err := s.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
