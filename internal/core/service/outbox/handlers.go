package outbox

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"encoding/json"
	"fmt"
)

type queueDispatchHandler struct {
	publisher port.QueuePublisher
	subject   string
}

// NewQueueDispatchHandler handles download.dispatch records by publishing the
// payload to the download worker queue
func NewQueueDispatchHandler(publisher port.QueuePublisher, subject string) port.OutboxHandler {
	return &queueDispatchHandler{publisher: publisher, subject: subject}
}

func (h *queueDispatchHandler) Kind() string {
	return domain.OutboxKindDownloadDispatch
}

func (h *queueDispatchHandler) Handle(ctx context.Context, record domain.Outbox) error {
	return h.publisher.Publish(ctx, h.subject, record.Payload)
}

type webhookNotifyHandler struct {
	sender port.WebhookSender
}

// NewWebhookNotifyHandler handles webhook.notify records by posting the
// payload to the recorded url. Any non-2xx response is a retryable failure.
func NewWebhookNotifyHandler(sender port.WebhookSender) port.OutboxHandler {
	return &webhookNotifyHandler{sender: sender}
}

func (h *webhookNotifyHandler) Kind() string {
	return domain.OutboxKindWebhookNotify
}

func (h *webhookNotifyHandler) Handle(ctx context.Context, record domain.Outbox) error {
	var payload domain.WebhookNotifyPayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return fmt.Errorf("could not unmarshal webhook payload: %w", err)
	}

	status, err := h.sender.Post(ctx, payload.URL, record.Payload)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("webhook returned status %d", status)
	}
	return nil
}
