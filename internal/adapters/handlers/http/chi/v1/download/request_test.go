package download_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	http2 "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blobvault/internal/adapters/handlers/http/chi"
	download2 "blobvault/internal/adapters/handlers/http/chi/v1/download"
	"blobvault/internal/core/domain"
	"blobvault/internal/core/service/download"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRequestDownloadV1_Success(t *testing.T) {

	t.Run("nominal", func(t *testing.T) {
		//Arrange
		dl := &domain.ExternalDownload{
			ID:             uuid.New(),
			IdempotencyKey: "req-1",
			SourceURL:      "https://example.com/archive.zip",
			TenantID:       "tenant-1",
			Status:         domain.DownloadStatusInit,
			CreatedAt:      time.Now(),
		}

		mockService := download.NewMockDownloadService()
		mockService.On("Request", mock.Anything, "req-1", "https://example.com/archive.zip", "tenant-1", "https://client.example.com/hook").
			Return(dl, nil)

		discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

		handler := download2.NewDownloadHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		requestBody := download2.V1RequestDownloadRequest{
			SourceURL:  "https://example.com/archive.zip",
			TenantID:   "tenant-1",
			WebhookURL: "https://client.example.com/hook",
		}
		jsonBody, err := json.Marshal(requestBody)
		require.NoError(t, err)
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/download", bytes.NewReader(jsonBody))
		req.Header.Set("Idempotency-Key", "req-1")

		//Act
		h.ServeHTTP(w, req)

		//Assert
		assert.Equal(t, http2.StatusAccepted, w.Code)
		mockService.AssertExpectations(t)
		var response download2.V1DownloadResponse
		err = json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, dl.ID, response.DownloadID)
		assert.Equal(t, string(domain.DownloadStatusInit), response.Status)
	})

	t.Run("nominal - idempotent replay returns the same job", func(t *testing.T) {
		//Arrange
		dl := &domain.ExternalDownload{
			ID:             uuid.New(),
			IdempotencyKey: "req-2",
			SourceURL:      "https://example.com/archive.zip",
			TenantID:       "tenant-1",
			Status:         domain.DownloadStatusDownloading,
			CreatedAt:      time.Now(),
		}

		mockService := download.NewMockDownloadService()
		mockService.On("Request", mock.Anything, "req-2", "https://example.com/archive.zip", "tenant-1", "").
			Return(dl, nil)

		discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

		handler := download2.NewDownloadHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		requestBody := download2.V1RequestDownloadRequest{
			SourceURL: "https://example.com/archive.zip",
			TenantID:  "tenant-1",
		}
		jsonBody, _ := json.Marshal(requestBody)
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/download", bytes.NewReader(jsonBody))
		req.Header.Set("Idempotency-Key", "req-2")

		//Act
		h.ServeHTTP(w, req)

		//Assert
		assert.Equal(t, http2.StatusAccepted, w.Code)
		var response download2.V1DownloadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, string(domain.DownloadStatusDownloading), response.Status)
	})
}

func TestRequestDownloadV1_Errors(t *testing.T) {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("error - missing idempotency key", func(t *testing.T) {
		// Arrange
		mockService := download.NewMockDownloadService()
		handler := download2.NewDownloadHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		requestBody := download2.V1RequestDownloadRequest{
			SourceURL: "https://example.com/archive.zip",
			TenantID:  "tenant-1",
		}
		jsonBody, _ := json.Marshal(requestBody)
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/download", bytes.NewReader(jsonBody))

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Request")
	})

	t.Run("error - missing source url", func(t *testing.T) {
		// Arrange
		mockService := download.NewMockDownloadService()
		handler := download2.NewDownloadHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		requestBody := download2.V1RequestDownloadRequest{TenantID: "tenant-1"}
		jsonBody, _ := json.Marshal(requestBody)
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/download", bytes.NewReader(jsonBody))
		req.Header.Set("Idempotency-Key", "req-3")

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Request")
	})

	t.Run("error - invalid source url", func(t *testing.T) {
		// Arrange
		mockService := download.NewMockDownloadService()
		mockService.On("Request", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return((*domain.ExternalDownload)(nil), domain.ErrInvalidSourceURL)

		handler := download2.NewDownloadHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		requestBody := download2.V1RequestDownloadRequest{
			SourceURL: "ftp://example.com/archive.zip",
			TenantID:  "tenant-1",
		}
		jsonBody, _ := json.Marshal(requestBody)
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/download", bytes.NewReader(jsonBody))
		req.Header.Set("Idempotency-Key", "req-4")

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
		var response download2.V1ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "INVALID_SOURCE_URL", response.Code)
	})

	t.Run("error - service internal failure", func(t *testing.T) {
		// Arrange
		mockService := download.NewMockDownloadService()
		mockService.On("Request", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return((*domain.ExternalDownload)(nil), errors.New("database connection failed"))

		handler := download2.NewDownloadHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		requestBody := download2.V1RequestDownloadRequest{
			SourceURL: "https://example.com/archive.zip",
			TenantID:  "tenant-1",
		}
		jsonBody, _ := json.Marshal(requestBody)
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/download", bytes.NewReader(jsonBody))
		req.Header.Set("Idempotency-Key", "req-5")

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusServiceUnavailable, w.Code)
	})
}

func TestGetDownloadV1(t *testing.T) {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("nominal", func(t *testing.T) {
		//Arrange
		completedAt := time.Now()
		dl := &domain.ExternalDownload{
			ID:               uuid.New(),
			SourceURL:        "https://example.com/archive.zip",
			TenantID:         "tenant-1",
			Status:           domain.DownloadStatusCompleted,
			BytesTransferred: 1024,
			TotalBytes:       1024,
			CreatedAt:        time.Now().Add(-time.Minute),
			CompletedAt:      &completedAt,
		}

		mockService := download.NewMockDownloadService()
		mockService.On("GetDownload", mock.Anything, dl.ID).
			Return(dl, nil)

		handler := download2.NewDownloadHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/download/"+dl.ID.String(), nil)

		//Act
		h.ServeHTTP(w, req)

		//Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		var response download2.V1DownloadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, dl.ID, response.DownloadID)
		assert.Equal(t, int64(1024), response.BytesTransferred)
		assert.NotNil(t, response.CompletedAt)
	})

	t.Run("error - not found", func(t *testing.T) {
		// Arrange
		downloadID := uuid.New()
		mockService := download.NewMockDownloadService()
		mockService.On("GetDownload", mock.Anything, downloadID).
			Return((*domain.ExternalDownload)(nil), domain.ErrDownloadNotFound)

		handler := download2.NewDownloadHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/download/"+downloadID.String(), nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusNotFound, w.Code)
	})

	t.Run("error - malformed id", func(t *testing.T) {
		// Arrange
		mockService := download.NewMockDownloadService()
		handler := download2.NewDownloadHandlerV1(mockService, discardLogger)
		h := chi.NewRouter(discardLogger, nil, handler, "")
		w := httptest.NewRecorder()

		req := httptest.NewRequest(http2.MethodGet, "/api/v1/download/not-a-uuid", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "GetDownload")
	})
}
