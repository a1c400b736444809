package outbox

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/service/download"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Dispatch claims a batch of due PENDING records and attempts their side
// effects. One record's failure never stops the batch; claiming is atomic so
// concurrent dispatcher instances never double-send.
func (s *dispatcherService) Dispatch(ctx context.Context) error {

	records, err := s.uow.OutboxRepo().ClaimPending(ctx, time.Now(), s.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("could not claim outbox records: %w", err)
	}

	for _, record := range records {
		if err := s.dispatchOne(ctx, record); err != nil {
			s.logger.Error("failed to settle outbox record", "outbox_id", record.ID, "kind", record.Kind, "error", err)
		}
	}

	return nil
}

func (s *dispatcherService) dispatchOne(ctx context.Context, record domain.Outbox) error {

	handler, ok := s.handlers[record.Kind]
	if !ok {
		s.logger.Error("no handler for outbox kind", "outbox_id", record.ID, "kind", record.Kind)
		return s.uow.OutboxRepo().MarkFailed(ctx, record.ID)
	}

	handleErr := handler.Handle(ctx, record)
	if handleErr == nil {
		return s.uow.OutboxRepo().MarkSent(ctx, record.ID)
	}

	record.RetryCount++
	if record.Exhausted() {
		s.logger.Error("outbox record exhausted retries", "outbox_id", record.ID, "kind", record.Kind, "error", handleErr)
		if err := s.uow.OutboxRepo().MarkFailed(ctx, record.ID); err != nil {
			return err
		}
		return s.deadLetter(ctx, record)
	}

	delay := s.retryDelay(record.RetryCount)
	s.logger.Warn("outbox record attempt failed, rescheduling",
		"outbox_id", record.ID, "kind", record.Kind, "retry_count", record.RetryCount, "delay", delay, "error", handleErr)
	return s.uow.OutboxRepo().Reschedule(ctx, record.ID, record.RetryCount, time.Now().Add(delay))
}

// deadLetter reacts to a terminally failed record. An exhausted download
// dispatch forces the owning download to FAILED so the job does not linger in
// a non-terminal state forever.
func (s *dispatcherService) deadLetter(ctx context.Context, record domain.Outbox) error {
	if record.Kind != domain.OutboxKindDownloadDispatch {
		return nil
	}

	var payload domain.DownloadDispatchPayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return fmt.Errorf("could not unmarshal dead-lettered payload: %w", err)
	}

	return download.MarkFailedTerminal(ctx, s.uow, payload.DownloadID, "download dispatch retries exhausted", record.MaxRetries)
}
