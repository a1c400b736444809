package port

import "context"

// QueuePublisher is an interface to define message publishing (nats, kafka, ...)
type QueuePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventConsumer is an interface to define a queue consumer
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}

// WebhookSender posts a notification payload; the returned status code drives
// retry eligibility at the outbox layer.
type WebhookSender interface {
	Post(ctx context.Context, url string, payload []byte) (int, error)
}
