package download

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 download routes
type HandlerV1 struct {
	downloadService port.DownloadService
	logger          *slog.Logger
}

// NewDownloadHandlerV1 creates HandlerV1
func NewDownloadHandlerV1(service port.DownloadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		downloadService: service,
		logger:          logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.RequestDownloadV1)
	router.Get("/{downloadID}", h.GetDownloadV1)

	return router
}

// V1ErrorResponse is the error body for every download route
type V1ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *HandlerV1) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(V1ErrorResponse{
		Code:    domain.CodeOf(err),
		Message: err.Error(),
	}); encErr != nil {
		h.logger.Error("error encoding error response", "error", encErr)
	}
}

func (h *HandlerV1) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDownloadNotFound):
		h.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidSourceURL):
		h.writeError(w, http.StatusBadRequest, err)
	default:
		h.logger.Error("download service error", "error", err)
		h.writeError(w, http.StatusServiceUnavailable, err)
	}
}

func (h *HandlerV1) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
