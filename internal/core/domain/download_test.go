package domain_test

import (
	"testing"
	"time"

	"blobvault/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalDownload_Start(t *testing.T) {
	dl := domain.ExternalDownload{Status: domain.DownloadStatusInit}

	require.NoError(t, dl.Start(time.Now()))
	assert.Equal(t, domain.DownloadStatusDownloading, dl.Status)
	assert.NotNil(t, dl.StartedAt)
}

func TestExternalDownload_Start_FromFailed(t *testing.T) {
	// a retry re-enters DOWNLOADING from FAILED
	dl := domain.ExternalDownload{Status: domain.DownloadStatusFailed, RetryCount: 1}

	require.NoError(t, dl.Start(time.Now()))
	assert.Equal(t, domain.DownloadStatusDownloading, dl.Status)
}

func TestExternalDownload_Start_FromCompleted(t *testing.T) {
	dl := domain.ExternalDownload{Status: domain.DownloadStatusCompleted}

	err := dl.Start(time.Now())

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestExternalDownload_Fail_CountsAttempt(t *testing.T) {
	dl := domain.ExternalDownload{Status: domain.DownloadStatusDownloading}

	require.NoError(t, dl.Fail("HTTP_503", "service unavailable"))

	assert.Equal(t, domain.DownloadStatusFailed, dl.Status)
	assert.Equal(t, "HTTP_503", dl.ErrorCode)
	assert.Equal(t, 1, dl.RetryCount)
}

func TestExternalDownload_UpdateProgress_OnlyWhileDownloading(t *testing.T) {
	dl := domain.ExternalDownload{Status: domain.DownloadStatusInit}

	err := dl.UpdateProgress(10, 100)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRetryableErrorCode(t *testing.T) {
	tests := []struct {
		code      string
		retryable bool
	}{
		{code: domain.ErrorCodeTimeout, retryable: true},
		{code: domain.ErrorCodeConnectionRefused, retryable: true},
		{code: "HTTP_500", retryable: true},
		{code: "HTTP_503", retryable: true},
		{code: "HTTP_599", retryable: true},
		{code: "HTTP_404", retryable: false},
		{code: "HTTP_403", retryable: false},
		{code: "HTTP_429", retryable: false},
		{code: domain.ErrorCodeTooLarge, retryable: false},
		{code: domain.ErrorCodeInternal, retryable: false},
		{code: "HTTP_abc", retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.retryable, domain.RetryableErrorCode(tt.code))
		})
	}
}

func TestExternalDownload_CanRetry(t *testing.T) {
	dl := domain.ExternalDownload{RetryCount: 2}

	assert.True(t, dl.CanRetry("HTTP_500", 3))
	assert.False(t, dl.CanRetry("HTTP_404", 3))

	dl.RetryCount = 3
	assert.False(t, dl.CanRetry("HTTP_500", 3))
}

func TestExternalDownload_NextRetryDelay(t *testing.T) {
	policy := domain.BackoffPolicy{
		Base:       time.Second,
		Multiplier: 2.0,
		Cap:        time.Hour,
	}

	tests := []struct {
		retryCount int
		expected   time.Duration
	}{
		{retryCount: 0, expected: 1 * time.Second},
		{retryCount: 1, expected: 2 * time.Second},
		{retryCount: 2, expected: 4 * time.Second},
		{retryCount: 3, expected: 8 * time.Second},
	}

	for _, tt := range tests {
		dl := domain.ExternalDownload{RetryCount: tt.retryCount}
		assert.Equal(t, tt.expected, dl.NextRetryDelay(policy))
	}
}

func TestExternalDownload_NextRetryDelay_Capped(t *testing.T) {
	policy := domain.BackoffPolicy{
		Base:       time.Minute,
		Multiplier: 2.0,
		Cap:        time.Hour,
	}

	dl := domain.ExternalDownload{RetryCount: 10}

	assert.Equal(t, time.Hour, dl.NextRetryDelay(policy))
}

func TestExternalDownload_MarkFailedTerminal(t *testing.T) {
	dl := domain.ExternalDownload{Status: domain.DownloadStatusDownloading, RetryCount: 2}

	dl.MarkFailedTerminal("dispatch retries exhausted", 5)

	assert.Equal(t, domain.DownloadStatusFailed, dl.Status)
	assert.Equal(t, domain.ErrorCodeInternal, dl.ErrorCode)
	// the retry count reads as exhausted but never exceeds the configured max
	assert.Equal(t, 5, dl.RetryCount)
	assert.False(t, dl.CanRetry("HTTP_500", 5))
}

func TestExternalDownload_MarkFailedTerminal_KeepsHigherRetryCount(t *testing.T) {
	dl := domain.ExternalDownload{Status: domain.DownloadStatusFailed, RetryCount: 7, ErrorCode: "HTTP_503"}

	dl.MarkFailedTerminal("dispatch retries exhausted", 5)

	assert.Equal(t, 7, dl.RetryCount)
	assert.Equal(t, "HTTP_503", dl.ErrorCode)
}

func TestHTTPErrorCode(t *testing.T) {
	assert.Equal(t, "HTTP_404", domain.HTTPErrorCode(404))
	assert.Equal(t, "HTTP_503", domain.HTTPErrorCode(503))
}

func TestOutbox_Exhausted(t *testing.T) {
	record := domain.Outbox{RetryCount: 4, MaxRetries: 5}
	assert.False(t, record.Exhausted())

	record.RetryCount = 5
	assert.True(t, record.Exhausted())
}
