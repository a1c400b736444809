package minio

import (
	"blobvault/internal/config"
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	core   *minio.Core
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	core := minio.Core{Client: client}
	return &Adapter{client: client, config: cfg, core: &core, logger: logger}, nil
}

// GeneratePresignedUploadURL generates a presigned PUT url for a single-shot upload
func (a *Adapter) GeneratePresignedUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, map[string]string, *time.Time, error) {

	if ttl <= 0 {
		ttl = a.config.SimplePresignedDuration
	}

	requestHeaders := make(http.Header)
	requestHeaders.Set("Content-Type", contentType)

	presignedURL, err := a.client.PresignHeader(ctx, http.MethodPut, a.config.BucketName, key, ttl, nil, requestHeaders)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	expiresAt := time.Now().Add(ttl)

	return presignedURL.String(), headerToMap(requestHeaders), &expiresAt, nil
}

// CreateMultipartUpload inits a provider-side multipart upload
func (a *Adapter) CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error) {

	opts := minio.PutObjectOptions{
		ContentType: contentType,
	}
	uploadID, err := a.core.NewMultipartUpload(ctx, a.config.BucketName, key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to init multipart upload: %w", err)
	}
	return uploadID, nil
}

// GeneratePresignedPartURL generates a presigned PUT url for one part
func (a *Adapter) GeneratePresignedPartURL(ctx context.Context, key, providerUploadID string, partNumber int) (string, map[string]string, *time.Time, error) {
	reqParams := make(url.Values)
	reqParams.Set("partNumber", fmt.Sprintf("%d", partNumber))
	reqParams.Set("uploadId", providerUploadID)

	presignedURL, err := a.core.PresignHeader(ctx, http.MethodPut, a.config.BucketName, key, a.config.PartPresignedDuration, reqParams, nil)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to generate presigned URL for part: %w", err)
	}

	expiresAt := time.Now().Add(a.config.PartPresignedDuration)
	return presignedURL.String(), map[string]string{}, &expiresAt, nil
}

// CompleteMultipartUpload marks the provider multipart upload as complete
func (a *Adapter) CompleteMultipartUpload(ctx context.Context, key, providerUploadID string, parts []domain.CompletedPart) error {

	sorted := make([]domain.CompletedPart, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PartNumber < sorted[j].PartNumber
	})

	completeParts := make([]minio.CompletePart, 0, len(sorted))
	for _, part := range sorted {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: part.PartNumber,
			ETag:       strings.Trim(part.ETag, "\""),
		})
	}

	opts := minio.PutObjectOptions{
		SendContentMd5: false,
	}

	_, err := a.core.CompleteMultipartUpload(ctx, a.config.BucketName, key, providerUploadID, completeParts, opts)
	if err != nil {
		return fmt.Errorf("failed to complete multipart upload: %w", err)
	}

	return nil
}

// AbortMultipartUpload aborts a provider multipart upload
func (a *Adapter) AbortMultipartUpload(ctx context.Context, key, providerUploadID string) error {
	err := a.core.AbortMultipartUpload(ctx, a.config.BucketName, key, providerUploadID)
	if err != nil {
		return fmt.Errorf("failed to abort multipart upload: %w", err)
	}

	a.logger.Info("multipart upload aborted",
		slog.String("key", key),
		slog.String("uploadID", providerUploadID))

	return nil
}

// HeadObject retrieves object metadata for verification
func (a *Adapter) HeadObject(ctx context.Context, key string) (*port.ObjectInfo, error) {
	info, err := a.client.StatObject(ctx, a.config.BucketName, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object info: %w", err)
	}
	return &port.ObjectInfo{
		ETag:        strings.Trim(info.ETag, "\""),
		Size:        info.Size,
		ContentType: info.ContentType,
	}, nil
}

// GetObject retrieves an object stream
func (a *Adapter) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := a.client.GetObject(ctx, a.config.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return object, nil
}

// PutObject streams an object into storage. size may be -1 when unknown.
func (a *Adapter) PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	info, err := a.client.PutObject(ctx, a.config.BucketName, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	return strings.Trim(info.ETag, "\""), nil
}

// DeleteObject deletes an object from storage
func (a *Adapter) DeleteObject(ctx context.Context, key string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	a.logger.Info("object deleted",
		slog.String("key", key),
		slog.String("bucket", a.config.BucketName))

	return nil
}

func headerToMap(headers http.Header) map[string]string {
	result := make(map[string]string)
	for key, values := range headers {
		if len(values) > 0 {
			result[key] = values[0]
		}
	}
	return result
}
