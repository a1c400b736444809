package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"blobvault/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// unlockScript deletes the lock key only when the stored token matches the
// caller's token, so an expired lease reacquired by another worker is never
// released by the previous holder.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockAdapter is a lease-based distributed lock backed by redis
type LockAdapter struct {
	client *redis.Client

	mu     sync.Mutex
	tokens map[string]string
}

// NewLockAdapter returns LockAdapter
func NewLockAdapter(ctx context.Context, cfg config.RedisConfig) (*LockAdapter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &LockAdapter{
		client: client,
		tokens: make(map[string]string),
	}, nil
}

// TryLock attempts to acquire the lock, retrying until wait elapses.
// It returns false when another holder kept the lock for the whole window.
func (a *LockAdapter) TryLock(ctx context.Context, key string, wait, lease time.Duration) (bool, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(wait)

	for {
		ok, err := a.client.SetNX(ctx, key, token, lease).Result()
		if err != nil {
			return false, fmt.Errorf("failed to acquire lock %q: %w", key, err)
		}
		if ok {
			a.mu.Lock()
			a.tokens[key] = token
			a.mu.Unlock()
			return true, nil
		}

		if time.Now().After(deadline) {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// Unlock releases the lock when the caller still holds it
func (a *LockAdapter) Unlock(ctx context.Context, key string) error {
	a.mu.Lock()
	token, held := a.tokens[key]
	delete(a.tokens, key)
	a.mu.Unlock()

	if !held {
		return nil
	}

	if err := unlockScript.Run(ctx, a.client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock %q: %w", key, err)
	}
	return nil
}

// IsLocked reports whether any holder currently owns the key
func (a *LockAdapter) IsLocked(ctx context.Context, key string) (bool, error) {
	n, err := a.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check lock %q: %w", key, err)
	}
	return n > 0, nil
}

// IsHeldByMe reports whether this process acquired the key and has not released it
func (a *LockAdapter) IsHeldByMe(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, held := a.tokens[key]
	return held
}

// Close closes the underlying redis connection
func (a *LockAdapter) Close() error {
	return a.client.Close()
}
