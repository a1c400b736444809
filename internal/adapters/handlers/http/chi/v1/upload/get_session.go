package upload

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// V1SessionResponse is the current state of an upload session
type V1SessionResponse struct {
	SessionID     uuid.UUID  `json:"session_id"`
	SessionKey    string     `json:"session_key"`
	TenantID      string     `json:"tenant_id"`
	FileName      string     `json:"filename"`
	SizeBytes     int64      `json:"size_bytes"`
	ContentType   string     `json:"content_type"`
	UploadType    string     `json:"upload_type"`
	Status        string     `json:"status"`
	FailureReason string     `json:"failure_reason,omitempty"`
	ExpiresAt     time.Time  `json:"expires_at"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	TotalParts    int        `json:"total_parts,omitempty"`
	UploadedParts int        `json:"uploaded_parts,omitempty"`
}

func (h *HandlerV1) GetSessionV1(w http.ResponseWriter, r *http.Request) {
	sessionKey := chi.URLParam(r, "sessionKey")
	if sessionKey == "" {
		http.Error(w, "session key is required", http.StatusBadRequest)
		return
	}

	session, mp, err := h.uploadService.GetSession(r.Context(), sessionKey)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := V1SessionResponse{
		SessionID:     session.ID,
		SessionKey:    session.SessionKey,
		TenantID:      session.TenantID,
		FileName:      session.FileName,
		SizeBytes:     session.FileSize,
		ContentType:   session.ContentType,
		UploadType:    string(session.UploadType),
		Status:        string(session.Status),
		FailureReason: session.FailureReason,
		ExpiresAt:     session.ExpiresAt,
		CreatedAt:     session.CreatedAt,
		CompletedAt:   session.CompletedAt,
	}
	if mp != nil {
		resp.TotalParts = mp.TotalParts
		resp.UploadedParts = len(mp.Parts)
	}

	h.writeJSON(w, http.StatusOK, resp)
}
