package upload

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(service port.UploadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.InitiateSingleV1)
	router.Post("/multipart", h.InitiateMultipartV1)
	router.Post("/{sessionKey}/parts/presign", h.PresignPartsV1)
	router.Post("/{sessionKey}/parts/{partNumber}", h.MarkPartV1)
	router.Post("/{sessionKey}/complete", h.CompleteV1)
	router.Delete("/{sessionKey}", h.AbortV1)
	router.Get("/{sessionKey}", h.GetSessionV1)

	return router
}

// V1ErrorResponse is the error body for every upload route
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
	case errors.Is(err, domain.ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrSessionExpired):
		h.writeError(w, http.StatusGone, err)
	case errors.Is(err, domain.ErrSessionTerminal),
		errors.Is(err, domain.ErrDuplicatePart),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrInvalidTransition):
		h.writeError(w, http.StatusConflict, err)
	case errors.Is(err, domain.ErrPartNumberOutOfRange),
		errors.Is(err, domain.ErrIncompleteParts),
		errors.Is(err, domain.ErrNotMultipart),
		errors.Is(err, domain.ErrSizeMismatch),
		errors.Is(err, domain.ErrMismatchETag),
		errors.Is(err, domain.ErrFileSizeTooBig),
		errors.Is(err, domain.ErrInvalidFileSize):
		h.writeError(w, http.StatusBadRequest, err)
	default:
		h.logger.Error("upload service error", "error", err)
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
