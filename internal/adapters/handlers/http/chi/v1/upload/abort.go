package upload

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *HandlerV1) AbortV1(w http.ResponseWriter, r *http.Request) {
	sessionKey := chi.URLParam(r, "sessionKey")
	if sessionKey == "" {
		http.Error(w, "session key is required", http.StatusBadRequest)
		return
	}

	if err := h.uploadService.Abort(r.Context(), sessionKey); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
