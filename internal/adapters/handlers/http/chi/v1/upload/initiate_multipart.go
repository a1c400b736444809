package upload

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// V1InitiateMultipartRequest is the request to open a multipart upload session
type V1InitiateMultipartRequest struct {
	TenantID    string `json:"tenant_id"`
	FileName    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	PartSize    int64  `json:"part_size,omitempty"`
}

// V1InitiateMultipartResponse is the response to open a multipart upload session
type V1InitiateMultipartResponse struct {
	SessionID  uuid.UUID `json:"session_id"`
	SessionKey string    `json:"session_key"`
	Status     string    `json:"status"`
	TotalParts int       `json:"total_parts"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (h *HandlerV1) InitiateMultipartV1(w http.ResponseWriter, r *http.Request) {

	var req V1InitiateMultipartRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.logger.Error("error decoding initiate multipart request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.TenantID == "" || req.FileName == "" || req.ContentType == "" {
		http.Error(w, "missing param", http.StatusBadRequest)
		return
	}

	session, totalParts, requestErr := h.uploadService.InitiateMultipart(r.Context(), req.TenantID, req.FileName, req.ContentType, req.SizeBytes, req.PartSize)
	if requestErr != nil {
		h.writeServiceError(w, requestErr)
		return
	}

	h.writeJSON(w, http.StatusCreated, V1InitiateMultipartResponse{
		SessionID:  session.ID,
		SessionKey: session.SessionKey,
		Status:     string(session.Status),
		TotalParts: totalParts,
		ExpiresAt:  session.ExpiresAt,
	})
}
