package repository

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUploadSessionRepository struct {
	mock.Mock
}

func NewMockUploadSessionRepository() *MockUploadSessionRepository {
	return &MockUploadSessionRepository{}
}

func (m *MockUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) FindBySessionKey(ctx context.Context, sessionKey string) (*domain.UploadSession, error) {
	args := m.Called(ctx, sessionKey)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time, limit int) ([]domain.UploadSession, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) Update(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

type MockMultipartUploadRepository struct {
	mock.Mock
}

func NewMockMultipartUploadRepository() *MockMultipartUploadRepository {
	return &MockMultipartUploadRepository{}
}

func (m *MockMultipartUploadRepository) Create(ctx context.Context, mp domain.MultipartUpload) error {
	args := m.Called(ctx, mp)
	return args.Error(0)
}

func (m *MockMultipartUploadRepository) FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.MultipartUpload, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(*domain.MultipartUpload), args.Error(1)
}

func (m *MockMultipartUploadRepository) AddPart(ctx context.Context, sessionID uuid.UUID, part domain.CompletedPart) error {
	args := m.Called(ctx, sessionID, part)
	return args.Error(0)
}

func (m *MockMultipartUploadRepository) UpdateStatus(ctx context.Context, sessionID uuid.UUID, status domain.MultipartStatus) error {
	args := m.Called(ctx, sessionID, status)
	return args.Error(0)
}

type MockExternalDownloadRepository struct {
	mock.Mock
}

func NewMockExternalDownloadRepository() *MockExternalDownloadRepository {
	return &MockExternalDownloadRepository{}
}

func (m *MockExternalDownloadRepository) Create(ctx context.Context, download domain.ExternalDownload) error {
	args := m.Called(ctx, download)
	return args.Error(0)
}

func (m *MockExternalDownloadRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ExternalDownload, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.ExternalDownload), args.Error(1)
}

func (m *MockExternalDownloadRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.ExternalDownload, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(*domain.ExternalDownload), args.Error(1)
}

func (m *MockExternalDownloadRepository) Update(ctx context.Context, download domain.ExternalDownload) error {
	args := m.Called(ctx, download)
	return args.Error(0)
}

type MockOutboxRepository struct {
	mock.Mock
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, record domain.Outbox) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockOutboxRepository) ClaimPending(ctx context.Context, now time.Time, limit int) ([]domain.Outbox, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]domain.Outbox), args.Error(1)
}

func (m *MockOutboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) Reschedule(ctx context.Context, id uuid.UUID, retryCount int, nextAttemptAt time.Time) error {
	args := m.Called(ctx, id, retryCount, nextAttemptAt)
	return args.Error(0)
}

func (m *MockOutboxRepository) ReclaimStale(ctx context.Context, olderThan time.Time) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

type MockAssetRepository struct {
	mock.Mock
}

func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{}
}

func (m *MockAssetRepository) Create(ctx context.Context, asset domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Asset), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	uploadSessionRepo   *MockUploadSessionRepository
	multipartUploadRepo *MockMultipartUploadRepository
	downloadRepo        *MockExternalDownloadRepository
	outboxRepo          *MockOutboxRepository
	assetRepo           *MockAssetRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		uploadSessionRepo:   &MockUploadSessionRepository{},
		multipartUploadRepo: &MockMultipartUploadRepository{},
		downloadRepo:        &MockExternalDownloadRepository{},
		outboxRepo:          &MockOutboxRepository{},
		assetRepo:           &MockAssetRepository{},
	}
}

func (m *MockUnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) MultipartUploadRepo() port.MultipartUploadRepository {
	return m.multipartUploadRepo
}

func (m *MockUnitOfWork) DownloadRepo() port.ExternalDownloadRepository {
	return m.downloadRepo
}

func (m *MockUnitOfWork) OutboxRepo() port.OutboxRepository {
	return m.outboxRepo
}

func (m *MockUnitOfWork) AssetRepo() port.AssetRepository {
	return m.assetRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetUploadSessionRepoMock() *MockUploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) GetMultipartUploadRepoMock() *MockMultipartUploadRepository {
	return m.multipartUploadRepo
}

func (m *MockUnitOfWork) GetDownloadRepoMock() *MockExternalDownloadRepository {
	return m.downloadRepo
}

func (m *MockUnitOfWork) GetOutboxRepoMock() *MockOutboxRepository {
	return m.outboxRepo
}

func (m *MockUnitOfWork) GetAssetRepoMock() *MockAssetRepository {
	return m.assetRepo
}
