package download_test

import (
	"context"
	"encoding/json"
	"testing"

	"blobvault/internal/core/domain"
	"blobvault/internal/core/service/download"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDispatchMessageHandler_HandleMessage(t *testing.T) {

	t.Run("nominal", func(t *testing.T) {
		// Arrange
		downloadID := uuid.New()
		mockService := download.NewMockDownloadService()
		mockService.On("Process", mock.Anything, downloadID).Return(nil)

		handler := download.NewDispatchMessageHandler(mockService, testLogger())
		payload, err := json.Marshal(domain.DownloadDispatchPayload{DownloadID: downloadID})
		require.NoError(t, err)

		// Act
		err = handler.HandleMessage(context.Background(), payload)

		// Assert
		require.NoError(t, err)
		mockService.AssertExpectations(t)
	})

	t.Run("error - malformed payload", func(t *testing.T) {
		// Arrange
		mockService := download.NewMockDownloadService()
		handler := download.NewDispatchMessageHandler(mockService, testLogger())

		// Act
		err := handler.HandleMessage(context.Background(), []byte("not json"))

		// Assert
		assert.Error(t, err)
		mockService.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
	})

	t.Run("error - processing failure propagates for redelivery", func(t *testing.T) {
		// Arrange
		downloadID := uuid.New()
		mockService := download.NewMockDownloadService()
		mockService.On("Process", mock.Anything, downloadID).Return(assert.AnError)

		handler := download.NewDispatchMessageHandler(mockService, testLogger())
		payload, _ := json.Marshal(domain.DownloadDispatchPayload{DownloadID: downloadID})

		// Act
		err := handler.HandleMessage(context.Background(), payload)

		// Assert
		assert.Error(t, err)
	})
}
