package outbox

import (
	"context"
	"fmt"
	"time"
)

// ReclaimStale returns PROCESSING records older than the staleness threshold
// to PENDING. Such rows belong to workers that crashed mid-attempt; without
// this pass their side effects would be silently lost.
func (s *dispatcherService) ReclaimStale(ctx context.Context) error {

	reclaimed, err := s.uow.OutboxRepo().ReclaimStale(ctx, time.Now().Add(-s.cfg.StaleAfter))
	if err != nil {
		return fmt.Errorf("could not reclaim stale outbox records: %w", err)
	}

	if reclaimed > 0 {
		s.logger.Warn("reclaimed stale outbox records", "count", reclaimed)
	}
	return nil
}
