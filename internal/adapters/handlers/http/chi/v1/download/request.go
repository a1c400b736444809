package download

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// V1RequestDownloadRequest asks the backend to fetch a remote URL into storage
type V1RequestDownloadRequest struct {
	SourceURL  string `json:"source_url"`
	TenantID   string `json:"tenant_id"`
	WebhookURL string `json:"webhook_url,omitempty"`
}

// V1DownloadResponse is the state of an external download job
type V1DownloadResponse struct {
	DownloadID       uuid.UUID  `json:"download_id"`
	SourceURL        string     `json:"source_url"`
	Status           string     `json:"status"`
	RetryCount       int        `json:"retry_count"`
	ErrorCode        string     `json:"error_code,omitempty"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	BytesTransferred int64      `json:"bytes_transferred"`
	TotalBytes       int64      `json:"total_bytes"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

func (h *HandlerV1) RequestDownloadV1(w http.ResponseWriter, r *http.Request) {

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		http.Error(w, "Idempotency-Key header is required", http.StatusBadRequest)
		return
	}

	var req V1RequestDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding request download request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.SourceURL == "" || req.TenantID == "" {
		http.Error(w, "missing param", http.StatusBadRequest)
		return
	}

	dl, err := h.downloadService.Request(r.Context(), idempotencyKey, req.SourceURL, req.TenantID, req.WebhookURL)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, V1DownloadResponse{
		DownloadID:       dl.ID,
		SourceURL:        dl.SourceURL,
		Status:           string(dl.Status),
		RetryCount:       dl.RetryCount,
		ErrorCode:        dl.ErrorCode,
		ErrorMessage:     dl.ErrorMessage,
		BytesTransferred: dl.BytesTransferred,
		TotalBytes:       dl.TotalBytes,
		CreatedAt:        dl.CreatedAt,
		CompletedAt:      dl.CompletedAt,
	})
}
