package storage

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) GeneratePresignedUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, map[string]string, *time.Time, error) {
	args := m.Called(ctx, key, contentType, ttl)
	return args.String(0), args.Get(1).(map[string]string), args.Get(2).(*time.Time), args.Error(3)
}

func (m *MockStorage) CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) GeneratePresignedPartURL(ctx context.Context, key, providerUploadID string, partNumber int) (string, map[string]string, *time.Time, error) {
	args := m.Called(ctx, key, providerUploadID, partNumber)
	return args.String(0), args.Get(1).(map[string]string), args.Get(2).(*time.Time), args.Error(3)
}

func (m *MockStorage) CompleteMultipartUpload(ctx context.Context, key, providerUploadID string, parts []domain.CompletedPart) error {
	args := m.Called(ctx, key, providerUploadID, parts)
	return args.Error(0)
}

func (m *MockStorage) AbortMultipartUpload(ctx context.Context, key, providerUploadID string) error {
	args := m.Called(ctx, key, providerUploadID)
	return args.Error(0)
}

func (m *MockStorage) HeadObject(ctx context.Context, key string) (*port.ObjectInfo, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(*port.ObjectInfo), args.Error(1)
}

func (m *MockStorage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
