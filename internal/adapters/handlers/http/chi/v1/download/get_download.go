package download

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *HandlerV1) GetDownloadV1(w http.ResponseWriter, r *http.Request) {
	downloadID := chi.URLParam(r, "downloadID")
	if downloadID == "" {
		http.Error(w, "download ID is required", http.StatusBadRequest)
		return
	}

	id, parseErr := uuid.Parse(downloadID)
	if parseErr != nil {
		http.Error(w, parseErr.Error(), http.StatusBadRequest)
		return
	}

	dl, err := h.downloadService.GetDownload(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1DownloadResponse{
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
