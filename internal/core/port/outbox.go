package port

import (
	"blobvault/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxRepository is an interface to interact with the outbox table.
// ClaimPending must atomically flip PENDING rows to PROCESSING so concurrent
// dispatcher instances never claim the same row.
type OutboxRepository interface {
	Create(ctx context.Context, record domain.Outbox) error
	ClaimPending(ctx context.Context, now time.Time, limit int) ([]domain.Outbox, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, id uuid.UUID, retryCount int, nextAttemptAt time.Time) error
	ReclaimStale(ctx context.Context, olderThan time.Time) (int, error)
}

// OutboxHandler executes the side effect of one outbox record kind
type OutboxHandler interface {
	Kind() string
	Handle(ctx context.Context, record domain.Outbox) error
}

// OutboxDispatcher is an interface to define the dispatch and reclaim passes
type OutboxDispatcher interface {
	Dispatch(ctx context.Context) error
	ReclaimStale(ctx context.Context) error
}
