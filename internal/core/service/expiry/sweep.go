package expiry

import (
	"context"
	"time"
)

// SweepExpired is the fallback pass covering missed key notifications. It
// serializes across replicas with the distributed lock; a lock miss means
// another worker is sweeping and this cycle is skipped.
func (e *expiryService) SweepExpired(ctx context.Context, now time.Time) error {

	acquired, err := e.lock.TryLock(ctx, sweepLockKey, 0, e.cfg.SweepLockLease)
	if err != nil {
		e.logger.Warn("sweep lock unavailable, skipping cycle", "error", err)
		return nil
	}
	if !acquired {
		e.logger.Debug("sweep lock held elsewhere, skipping cycle")
		return nil
	}
	defer func() {
		if unlockErr := e.lock.Unlock(ctx, sweepLockKey); unlockErr != nil {
			e.logger.Warn("failed to release sweep lock", "error", unlockErr)
		}
	}()

	sessions, err := e.uow.UploadSessionRepo().FindAllExpired(ctx, now, e.cfg.SweepBatchSize)
	if err != nil {
		return err
	}

	for i := range sessions {
		if err := e.expireSession(ctx, &sessions[i]); err != nil {
			// one bad session must not stop the sweep
			e.logger.Error("failed to expire session during sweep", "session_key", sessions[i].SessionKey, "error", err)
		}
	}

	e.logger.Info("expired session sweep completed", "count", len(sessions))
	return nil
}
