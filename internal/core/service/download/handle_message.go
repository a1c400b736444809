package download

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

type dispatchMessageHandler struct {
	downloads port.DownloadService
	logger    *slog.Logger
}

// NewDispatchMessageHandler adapts the download service to the queue consumer:
// each message is one dispatch of a download job.
func NewDispatchMessageHandler(downloads port.DownloadService, logger *slog.Logger) port.MessageService {
	return &dispatchMessageHandler{downloads: downloads, logger: logger}
}

func (h *dispatchMessageHandler) HandleMessage(ctx context.Context, data []byte) error {
	var payload domain.DownloadDispatchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("could not unmarshal dispatch payload: %w", err)
	}

	h.logger.Info("processing download dispatch", "download_id", payload.DownloadID)
	return h.downloads.Process(ctx, payload.DownloadID)
}
