package upload

import (
	"blobvault/internal/core/domain"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// V1CompleteRequest carries the client's view of the finished object
type V1CompleteRequest struct {
	SizeBytes int64  `json:"size_bytes"`
	ETag      string `json:"etag,omitempty"`
}

// V1CompleteResponse is the created asset
type V1CompleteResponse struct {
	AssetID    uuid.UUID `json:"asset_id"`
	StorageKey string    `json:"storage_key"`
	SizeBytes  int64     `json:"size_bytes"`
	ETag       string    `json:"etag"`
}

func (h *HandlerV1) CompleteV1(w http.ResponseWriter, r *http.Request) {
	sessionKey := chi.URLParam(r, "sessionKey")
	if sessionKey == "" {
		http.Error(w, "session key is required", http.StatusBadRequest)
		return
	}

	var req V1CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding complete request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, _, err := h.uploadService.GetSession(r.Context(), sessionKey)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	var asset *domain.Asset
	if session.UploadType == domain.UploadTypeMultipart {
		asset, err = h.uploadService.CompleteMultipart(r.Context(), sessionKey, req.SizeBytes, req.ETag)
	} else {
		asset, err = h.uploadService.CompleteSingle(r.Context(), sessionKey, req.SizeBytes, req.ETag)
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1CompleteResponse{
		AssetID:    asset.ID,
		StorageKey: asset.StorageKey,
		SizeBytes:  asset.SizeBytes,
		ETag:       asset.ETag,
	})
}
