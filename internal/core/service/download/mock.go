package download

import (
	"blobvault/internal/core/domain"
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDownloadService is a mock implementation of DownloadService
type MockDownloadService struct {
	mock.Mock
}

// NewMockDownloadService creates a new MockDownloadService
func NewMockDownloadService() *MockDownloadService {
	return &MockDownloadService{}
}

func (m *MockDownloadService) Request(ctx context.Context, idempotencyKey, sourceURL, tenantID, webhookURL string) (*domain.ExternalDownload, error) {
	args := m.Called(ctx, idempotencyKey, sourceURL, tenantID, webhookURL)
	return args.Get(0).(*domain.ExternalDownload), args.Error(1)
}

func (m *MockDownloadService) Process(ctx context.Context, downloadID uuid.UUID) error {
	args := m.Called(ctx, downloadID)
	return args.Error(0)
}

func (m *MockDownloadService) GetDownload(ctx context.Context, id uuid.UUID) (*domain.ExternalDownload, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.ExternalDownload), args.Error(1)
}
