package upload

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// V1InitiateUploadRequest is the request to open a single-shot upload session
type V1InitiateUploadRequest struct {
	TenantID    string `json:"tenant_id"`
	FileName    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// V1InitiateUploadResponse is the response to open a single-shot upload session
type V1InitiateUploadResponse struct {
	SessionID    uuid.UUID         `json:"session_id"`
	SessionKey   string            `json:"session_key"`
	Status       string            `json:"status"`
	PresignedURL string            `json:"presigned_url"`
	Headers      map[string]string `json:"headers"`
	ExpiresAt    time.Time         `json:"expires_at"`
}

func (h *HandlerV1) InitiateSingleV1(w http.ResponseWriter, r *http.Request) {

	var req V1InitiateUploadRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.logger.Error("error decoding initiate upload request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.TenantID == "" || req.FileName == "" || req.ContentType == "" {
		http.Error(w, "missing param", http.StatusBadRequest)
		return
	}

	session, presignedURL, headers, requestErr := h.uploadService.InitiateSingle(r.Context(), req.TenantID, req.FileName, req.ContentType, req.SizeBytes)
	if requestErr != nil {
		h.writeServiceError(w, requestErr)
		return
	}

	h.writeJSON(w, http.StatusCreated, V1InitiateUploadResponse{
		SessionID:    session.ID,
		SessionKey:   session.SessionKey,
		Status:       string(session.Status),
		PresignedURL: presignedURL,
		Headers:      headers,
		ExpiresAt:    session.ExpiresAt,
	})
}
