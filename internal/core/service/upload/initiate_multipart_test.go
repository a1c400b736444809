package upload_test

import (
	"context"
	"testing"

	"blobvault/internal/adapters/lock"
	"blobvault/internal/adapters/repository"
	"blobvault/internal/adapters/storage"
	"blobvault/internal/core/domain"
	"blobvault/internal/core/service/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadService_InitiateMultipart_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	mockExpiry := lock.NewMockExpiryTracker()
	service := upload.NewUploadService(mockUow, mockStorage, mockExpiry, defaultCfg, testLogger())

	fileSize := int64(25 << 20) // 25MB, 10MB parts -> 3 parts

	mockStorage.
		On("CreateMultipartUpload", ctx, mock.Anything, "video/mp4").
		Return("provider-upload-id", nil)

	mockUow.GetUploadSessionRepoMock().
		On("Create", ctx, mock.AnythingOfType("domain.UploadSession")).
		Return(nil)

	mockUow.GetMultipartUploadRepoMock().
		On("Create", ctx, mock.MatchedBy(func(mp domain.MultipartUpload) bool {
			return mp.ProviderUploadID == "provider-upload-id" &&
				mp.TotalParts == 3 &&
				mp.Status == domain.MultipartStatusInProgress
		})).
		Return(nil)

	mockUow.
		On("Execute", ctx, mock.Anything).
		Return(nil)

	mockExpiry.
		On("Track", ctx, mock.Anything, mock.Anything).
		Return(nil)

	// Act
	session, totalParts, err := service.InitiateMultipart(ctx, "tenant-1", "video.mp4", "video/mp4", fileSize, 0)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, domain.UploadTypeMultipart, session.UploadType)
	assert.Equal(t, 3, totalParts)

	mockUow.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
	mockUow.GetMultipartUploadRepoMock().AssertExpectations(t)
}

func TestUploadService_InitiateMultipart_PersistenceFailureAbortsProviderUpload(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	mockExpiry := lock.NewMockExpiryTracker()
	service := upload.NewUploadService(mockUow, mockStorage, mockExpiry, defaultCfg, testLogger())

	mockStorage.
		On("CreateMultipartUpload", ctx, mock.Anything, mock.Anything).
		Return("provider-upload-id", nil)

	mockUow.GetUploadSessionRepoMock().
		On("Create", ctx, mock.Anything).
		Return(assert.AnError)

	mockUow.
		On("Execute", ctx, mock.Anything).
		Return(nil)

	mockStorage.
		On("AbortMultipartUpload", ctx, mock.Anything, "provider-upload-id").
		Return(nil)

	// Act
	session, _, err := service.InitiateMultipart(ctx, "tenant-1", "video.mp4", "video/mp4", 1<<20, 0)

	// Assert
	require.Error(t, err)
	assert.Nil(t, session)
	mockStorage.AssertCalled(t, "AbortMultipartUpload", ctx, mock.Anything, "provider-upload-id")
}

func TestUploadService_InitiateMultipart_FileTooBig(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	mockExpiry := lock.NewMockExpiryTracker()
	service := upload.NewUploadService(mockUow, mockStorage, mockExpiry, defaultCfg, testLogger())

	// Act
	_, _, err := service.InitiateMultipart(ctx, "tenant-1", "huge.bin", "application/octet-stream", defaultCfg.MultipartUploadMaxSize+1, 0)

	// Assert
	assert.ErrorIs(t, err, domain.ErrFileSizeTooBig)
}
