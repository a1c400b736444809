package upload

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// V1MarkPartRequest is the acknowledgement of one uploaded part
type V1MarkPartRequest struct {
	ETag      string `json:"etag"`
	SizeBytes int64  `json:"size_bytes"`
}

func (h *HandlerV1) MarkPartV1(w http.ResponseWriter, r *http.Request) {
	sessionKey := chi.URLParam(r, "sessionKey")
	if sessionKey == "" {
		http.Error(w, "session key is required", http.StatusBadRequest)
		return
	}

	partNumber, parseErr := strconv.Atoi(chi.URLParam(r, "partNumber"))
	if parseErr != nil {
		http.Error(w, "invalid part number", http.StatusBadRequest)
		return
	}

	var req V1MarkPartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding mark part request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.ETag == "" {
		http.Error(w, "etag is required", http.StatusBadRequest)
		return
	}

	if err := h.uploadService.MarkPartUploaded(r.Context(), sessionKey, partNumber, req.ETag, req.SizeBytes); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
