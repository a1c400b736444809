package domain

import (
	"time"

	"github.com/google/uuid"
)

// Asset represents a stored object a client can retrieve. One is created when
// an upload session or an external download completes.
type Asset struct {
	ID          uuid.UUID
	TenantID    string
	FileName    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	ETag        string
	SourceURL   *string
	CreatedAt   time.Time
}
