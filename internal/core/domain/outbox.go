package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxStatus represents the status of an outbox record.
// The string values are part of the wire contract.
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
)

// Outbox record kinds, dispatched by the matching handler
const (
	OutboxKindDownloadDispatch = "download.dispatch"
	OutboxKindWebhookNotify    = "webhook.notify"
)

// Outbox is a durable record of a side effect that must still happen
type Outbox struct {
	ID            uuid.UUID
	Kind          string
	AggregateType string
	AggregateID   uuid.UUID
	Payload       []byte
	Status        OutboxStatus
	RetryCount    int
	MaxRetries    int
	NextAttemptAt time.Time
	CreatedAt     time.Time
	LastAttemptAt *time.Time
}

// Exhausted reports whether another failed attempt would exceed MaxRetries
func (o *Outbox) Exhausted() bool {
	return o.RetryCount >= o.MaxRetries
}

// DownloadDispatchPayload is the payload of a download.dispatch record
type DownloadDispatchPayload struct {
	DownloadID uuid.UUID `json:"download_id"`
}

// WebhookNotifyPayload is the payload of a webhook.notify record
type WebhookNotifyPayload struct {
	URL        string    `json:"url"`
	DownloadID uuid.UUID `json:"download_id"`
	Status     string    `json:"status"`
	ErrorCode  string    `json:"error_code,omitempty"`
	StorageKey string    `json:"storage_key,omitempty"`
	SizeBytes  int64     `json:"size_bytes,omitempty"`
}
