package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DownloadStatus represents the status of an external download.
// The string values are part of the wire contract.
type DownloadStatus string

const (
	DownloadStatusInit        DownloadStatus = "INIT"
	DownloadStatusDownloading DownloadStatus = "DOWNLOADING"
	DownloadStatusCompleted   DownloadStatus = "COMPLETED"
	DownloadStatusFailed      DownloadStatus = "FAILED"
)

// Error codes recorded on a failed download attempt. HTTP failures use
// "HTTP_<status>" so retry eligibility can be decided from the code alone.
const (
	ErrorCodeTimeout           = "TIMEOUT"
	ErrorCodeConnectionRefused = "CONNECTION_REFUSED"
	ErrorCodeTooLarge          = "FILE_TOO_LARGE"
	ErrorCodeStorage           = "STORAGE_ERROR"
	ErrorCodeInternal          = "INTERNAL"
)

// HTTPErrorCode formats an HTTP status code as a download error code
func HTTPErrorCode(status int) string {
	return fmt.Sprintf("HTTP_%d", status)
}

// ExternalDownload represents one "fetch URL, store as object, create asset" job
type ExternalDownload struct {
	ID               uuid.UUID
	IdempotencyKey   string
	SourceURL        string
	UploadSessionID  uuid.UUID
	TenantID         string
	WebhookURL       string
	Status           DownloadStatus
	RetryCount       int
	ErrorCode        string
	ErrorMessage     string
	BytesTransferred int64
	TotalBytes       int64
	CreatedAt        time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
}

// Start moves the download from INIT to DOWNLOADING. A retried download
// re-enters DOWNLOADING from FAILED.
func (d *ExternalDownload) Start(now time.Time) error {
	switch d.Status {
	case DownloadStatusInit, DownloadStatusFailed:
		d.Status = DownloadStatusDownloading
		d.StartedAt = &now
		return nil
	default:
		return fmt.Errorf("%w: cannot start download in status %s", ErrInvalidTransition, d.Status)
	}
}

// UpdateProgress records transferred bytes; only valid while DOWNLOADING
func (d *ExternalDownload) UpdateProgress(bytesTransferred, totalBytes int64) error {
	if d.Status != DownloadStatusDownloading {
		return fmt.Errorf("%w: cannot update progress in status %s", ErrInvalidTransition, d.Status)
	}
	d.BytesTransferred = bytesTransferred
	d.TotalBytes = totalBytes
	return nil
}

// Complete moves the download from DOWNLOADING to COMPLETED
func (d *ExternalDownload) Complete(now time.Time) error {
	if d.Status != DownloadStatusDownloading {
		return fmt.Errorf("%w: cannot complete download in status %s", ErrInvalidTransition, d.Status)
	}
	d.Status = DownloadStatusCompleted
	d.CompletedAt = &now
	return nil
}

// Fail moves the download from DOWNLOADING to FAILED and counts the attempt
func (d *ExternalDownload) Fail(errorCode, errorMessage string) error {
	if d.Status != DownloadStatusDownloading {
		return fmt.Errorf("%w: cannot fail download in status %s", ErrInvalidTransition, d.Status)
	}
	d.Status = DownloadStatusFailed
	d.ErrorCode = errorCode
	d.ErrorMessage = errorMessage
	d.RetryCount++
	return nil
}

// MarkFailedTerminal forces FAILED regardless of the current state. It is the
// escape hatch for externally declared exhaustion (dead-lettered dispatch),
// which bypasses normal transition checks. RetryCount is raised to maxRetries
// so the record reads as exhausted without a sentinel leaking into responses.
func (d *ExternalDownload) MarkFailedTerminal(errorMessage string, maxRetries int) {
	d.Status = DownloadStatusFailed
	if d.RetryCount < maxRetries {
		d.RetryCount = maxRetries
	}
	if d.ErrorCode == "" {
		d.ErrorCode = ErrorCodeInternal
	}
	d.ErrorMessage = errorMessage
}

// RetryableErrorCode reports whether an error code class is worth retrying:
// 5xx, timeouts and connection refusals are; 4xx never is.
func RetryableErrorCode(code string) bool {
	switch code {
	case ErrorCodeTimeout, ErrorCodeConnectionRefused:
		return true
	}
	if status, ok := strings.CutPrefix(code, "HTTP_"); ok {
		n, err := strconv.Atoi(status)
		if err != nil {
			return false
		}
		return n >= 500 && n <= 599
	}
	return false
}

// CanRetry reports whether this download may re-enter DOWNLOADING
func (d *ExternalDownload) CanRetry(errorCode string, maxRetries int) bool {
	if d.RetryCount >= maxRetries {
		return false
	}
	return RetryableErrorCode(errorCode)
}

// BackoffPolicy configures exponential retry delays
type BackoffPolicy struct {
	Base       time.Duration
	Multiplier float64
	Cap        time.Duration
}

// NextRetryDelay returns min(cap, base * multiplier^retryCount)
func (d *ExternalDownload) NextRetryDelay(p BackoffPolicy) time.Duration {
	delay := time.Duration(float64(p.Base) * math.Pow(p.Multiplier, float64(d.RetryCount)))
	if delay > p.Cap || delay < 0 {
		return p.Cap
	}
	return delay
}
