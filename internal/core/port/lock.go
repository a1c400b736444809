package port

import (
	"context"
	"time"
)

// DistributedLock is a lease-based mutual-exclusion primitive over a shared
// key. A false return from TryLock means "could not proceed this cycle", never
// a fatal condition; unlocking a key the caller does not hold is a no-op.
type DistributedLock interface {
	TryLock(ctx context.Context, key string, wait, lease time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
	IsLocked(ctx context.Context, key string) (bool, error)
	IsHeldByMe(key string) bool
}

// ExpiryTracker registers keys with a TTL and delivers key-expired
// notifications. Delivery is best-effort: a missed notification is recovered
// by the fallback sweep.
type ExpiryTracker interface {
	Track(ctx context.Context, sessionKey string, ttl time.Duration) error
	Subscribe(ctx context.Context, handler func(ctx context.Context, sessionKey string)) error
	Close() error
}

// ExpiryService is an interface to define session expiration handling
type ExpiryService interface {
	Expire(ctx context.Context, sessionKey string) error
	HandleExpiredKey(ctx context.Context, sessionKey string)
	SweepExpired(ctx context.Context, now time.Time) error
}
