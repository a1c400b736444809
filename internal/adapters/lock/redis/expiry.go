package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blobvault/internal/config"

	"github.com/redis/go-redis/v9"
)

const expiryKeyPrefix = "blobvault:session:"

// ExpiryAdapter tracks upload-session TTLs as redis keys and surfaces
// key-expired events via keyspace notifications. Notifications are
// best-effort; the periodic sweep catches anything missed.
type ExpiryAdapter struct {
	client *redis.Client
	pubsub *redis.PubSub
	logger *slog.Logger
}

// NewExpiryAdapter returns ExpiryAdapter
func NewExpiryAdapter(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*ExpiryAdapter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// enable expired-key events; fails on managed redis that locks CONFIG,
	// in which case the operator sets notify-keyspace-events themselves
	if err := client.ConfigSet(ctx, "notify-keyspace-events", "Ex").Err(); err != nil {
		logger.Warn("could not enable keyspace notifications", slog.Any("error", err))
	}

	return &ExpiryAdapter{client: client, logger: logger}, nil
}

// Track registers a session key with a TTL
func (a *ExpiryAdapter) Track(ctx context.Context, sessionKey string, ttl time.Duration) error {
	if err := a.client.Set(ctx, expiryKeyPrefix+sessionKey, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to track session %q: %w", sessionKey, err)
	}
	return nil
}

// Subscribe listens for expired-key notifications and invokes handler with the
// session key. It blocks until ctx is cancelled or the subscription closes.
func (a *ExpiryAdapter) Subscribe(ctx context.Context, handler func(ctx context.Context, sessionKey string)) error {
	a.pubsub = a.client.PSubscribe(ctx, "__keyevent@*__:expired")

	ch := a.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(msg.Payload, expiryKeyPrefix) {
				continue
			}
			handler(ctx, strings.TrimPrefix(msg.Payload, expiryKeyPrefix))
		}
	}
}

// Close closes the subscription and the underlying connection
func (a *ExpiryAdapter) Close() error {
	if a.pubsub != nil {
		if err := a.pubsub.Close(); err != nil {
			return err
		}
	}
	return a.client.Close()
}
