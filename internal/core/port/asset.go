package port

import (
	"blobvault/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// AssetRepository is an interface to interact with asset storage
type AssetRepository interface {
	Create(ctx context.Context, asset domain.Asset) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error)
}
