package upload

import (
	"blobvault/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) InitiateSingle(ctx context.Context, tenantID, fileName, contentType string, fileSize int64) (*domain.UploadSession, string, map[string]string, error) {
	args := m.Called(ctx, tenantID, fileName, contentType, fileSize)
	return args.Get(0).(*domain.UploadSession),
		args.String(1),
		args.Get(2).(map[string]string),
		args.Error(3)
}

func (m *MockUploadService) InitiateMultipart(ctx context.Context, tenantID, fileName, contentType string, fileSize, partSize int64) (*domain.UploadSession, int, error) {
	args := m.Called(ctx, tenantID, fileName, contentType, fileSize, partSize)
	return args.Get(0).(*domain.UploadSession), args.Int(1), args.Error(2)
}

func (m *MockUploadService) MarkPartUploaded(ctx context.Context, sessionKey string, partNumber int, etag string, size int64) error {
	args := m.Called(ctx, sessionKey, partNumber, etag, size)
	return args.Error(0)
}

func (m *MockUploadService) GetPresignedParts(ctx context.Context, sessionKey string, partNumbers []int) ([]domain.UploadPart, error) {
	args := m.Called(ctx, sessionKey, partNumbers)
	return args.Get(0).([]domain.UploadPart), args.Error(1)
}

func (m *MockUploadService) CompleteSingle(ctx context.Context, sessionKey string, observedSize int64, etag string) (*domain.Asset, error) {
	args := m.Called(ctx, sessionKey, observedSize, etag)
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockUploadService) CompleteMultipart(ctx context.Context, sessionKey string, observedSize int64, etag string) (*domain.Asset, error) {
	args := m.Called(ctx, sessionKey, observedSize, etag)
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockUploadService) Abort(ctx context.Context, sessionKey string) error {
	args := m.Called(ctx, sessionKey)
	return args.Error(0)
}

func (m *MockUploadService) GetSession(ctx context.Context, sessionKey string) (*domain.UploadSession, *domain.MultipartUpload, error) {
	args := m.Called(ctx, sessionKey)
	return args.Get(0).(*domain.UploadSession), args.Get(1).(*domain.MultipartUpload), args.Error(2)
}
