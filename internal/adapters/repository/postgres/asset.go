package postgres

import (
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type sqlAssetRepository struct {
	db SQLQuerier
}

// NewSQLAssetRepository creates a new sqlAssetRepository
func NewSQLAssetRepository(db SQLQuerier) port.AssetRepository {
	return &sqlAssetRepository{db: db}
}

// Create creates an asset
func (s *sqlAssetRepository) Create(ctx context.Context, asset domain.Asset) error {
	query := `
		INSERT INTO asset (id, tenant_id, file_name, content_type, size_bytes, storage_key, etag, source_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		asset.ID,
		asset.TenantID,
		asset.FileName,
		asset.ContentType,
		asset.SizeBytes,
		asset.StorageKey,
		asset.ETag,
		asset.SourceURL,
		asset.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting asset: %w", err)
	}
	return nil
}

func (s *sqlAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := `
		SELECT id, tenant_id, file_name, content_type, size_bytes, storage_key, etag, source_url, created_at
		FROM asset
		WHERE id = $1`

	var asset domain.Asset
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&asset.ID,
		&asset.TenantID,
		&asset.FileName,
		&asset.ContentType,
		&asset.SizeBytes,
		&asset.StorageKey,
		&asset.ETag,
		&asset.SourceURL,
		&asset.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}
