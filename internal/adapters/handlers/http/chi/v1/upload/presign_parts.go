package upload

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// V1PresignPartsRequest asks for upload URLs for a set of part numbers
type V1PresignPartsRequest struct {
	PartNumbers []int `json:"part_numbers"`
}

// V1PresignedPart is one presigned part URL
type V1PresignedPart struct {
	PartNumber   int               `json:"part_number"`
	PresignedURL string            `json:"presigned_url"`
	Headers      map[string]string `json:"headers"`
	ExpiresAt    *time.Time        `json:"expires_at"`
}

// V1PresignPartsResponse is the response with presigned part URLs
type V1PresignPartsResponse struct {
	Parts []V1PresignedPart `json:"parts"`
}

func (h *HandlerV1) PresignPartsV1(w http.ResponseWriter, r *http.Request) {
	sessionKey := chi.URLParam(r, "sessionKey")
	if sessionKey == "" {
		http.Error(w, "session key is required", http.StatusBadRequest)
		return
	}

	var req V1PresignPartsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding presign parts request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.PartNumbers) == 0 {
		http.Error(w, "provide at least one part number", http.StatusBadRequest)
		return
	}

	parts, err := h.uploadService.GetPresignedParts(r.Context(), sessionKey, req.PartNumbers)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := V1PresignPartsResponse{Parts: make([]V1PresignedPart, 0, len(parts))}
	for _, part := range parts {
		resp.Parts = append(resp.Parts, V1PresignedPart{
			PartNumber:   part.PartNumber,
			PresignedURL: part.PresignedURL,
			Headers:      part.Headers,
			ExpiresAt:    part.ExpiresAt,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}
