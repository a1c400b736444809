package lock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockDistributedLock struct {
	mock.Mock
}

func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{}
}

func (m *MockDistributedLock) TryLock(ctx context.Context, key string, wait, lease time.Duration) (bool, error) {
	args := m.Called(ctx, key, wait, lease)
	return args.Bool(0), args.Error(1)
}

func (m *MockDistributedLock) Unlock(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockDistributedLock) IsLocked(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockDistributedLock) IsHeldByMe(key string) bool {
	args := m.Called(key)
	return args.Bool(0)
}

type MockExpiryTracker struct {
	mock.Mock
}

func NewMockExpiryTracker() *MockExpiryTracker {
	return &MockExpiryTracker{}
}

func (m *MockExpiryTracker) Track(ctx context.Context, sessionKey string, ttl time.Duration) error {
	args := m.Called(ctx, sessionKey, ttl)
	return args.Error(0)
}

func (m *MockExpiryTracker) Subscribe(ctx context.Context, handler func(ctx context.Context, sessionKey string)) error {
	args := m.Called(ctx, handler)
	return args.Error(0)
}

func (m *MockExpiryTracker) Close() error {
	args := m.Called()
	return args.Error(0)
}
