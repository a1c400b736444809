package domain_test

import (
	"testing"
	"time"

	"blobvault/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadSession_Lifecycle(t *testing.T) {
	// Arrange
	session := domain.UploadSession{
		ID:         uuid.New(),
		SessionKey: uuid.NewString(),
		Status:     domain.UploadSessionStatusInitiated,
	}

	// Act & Assert
	require.NoError(t, session.MarkInProgress())
	assert.Equal(t, domain.UploadSessionStatusInProgress, session.Status)

	// idempotent
	require.NoError(t, session.MarkInProgress())
	assert.Equal(t, domain.UploadSessionStatusInProgress, session.Status)

	now := time.Now()
	require.NoError(t, session.Complete(now))
	assert.Equal(t, domain.UploadSessionStatusCompleted, session.Status)
	require.NotNil(t, session.CompletedAt)
	assert.Equal(t, now, *session.CompletedAt)
}

func TestUploadSession_CompleteTerminal(t *testing.T) {
	session := domain.UploadSession{Status: domain.UploadSessionStatusFailed}

	err := session.Complete(time.Now())

	assert.ErrorIs(t, err, domain.ErrSessionTerminal)
}

func TestUploadSession_CompleteExpired(t *testing.T) {
	session := domain.UploadSession{Status: domain.UploadSessionStatusExpired}

	err := session.Complete(time.Now())

	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestUploadSession_MarkInProgressExpired(t *testing.T) {
	session := domain.UploadSession{Status: domain.UploadSessionStatusExpired}

	err := session.MarkInProgress()

	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestUploadSession_Fail(t *testing.T) {
	session := domain.UploadSession{Status: domain.UploadSessionStatusInProgress}

	now := time.Now()
	require.NoError(t, session.Fail("size mismatch", now))

	assert.Equal(t, domain.UploadSessionStatusFailed, session.Status)
	assert.Equal(t, "size mismatch", session.FailureReason)
	require.NotNil(t, session.FailedAt)
}

func TestUploadSession_ExpireIsIdempotent(t *testing.T) {
	session := domain.UploadSession{Status: domain.UploadSessionStatusInitiated}

	assert.True(t, session.Expire())
	assert.Equal(t, domain.UploadSessionStatusExpired, session.Status)

	// a second expiration attempt is a no-op, never an error
	assert.False(t, session.Expire())
	assert.Equal(t, domain.UploadSessionStatusExpired, session.Status)
}

func TestUploadSession_ExpireCompletedIsNoOp(t *testing.T) {
	session := domain.UploadSession{Status: domain.UploadSessionStatusCompleted}

	assert.False(t, session.Expire())
	assert.Equal(t, domain.UploadSessionStatusCompleted, session.Status)
}

func TestTotalPartsFor(t *testing.T) {
	tests := []struct {
		name     string
		fileSize int64
		partSize int64
		expected int
	}{
		{name: "exact multiple", fileSize: 100, partSize: 10, expected: 10},
		{name: "remainder rounds up", fileSize: 105, partSize: 10, expected: 11},
		{name: "smaller than one part", fileSize: 3, partSize: 10, expected: 1},
		{name: "zero part size", fileSize: 100, partSize: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.TotalPartsFor(tt.fileSize, tt.partSize))
		})
	}
}

func TestMultipartUpload_AddPart(t *testing.T) {
	mp := domain.MultipartUpload{
		SessionID:  uuid.New(),
		TotalParts: 3,
		Status:     domain.MultipartStatusInProgress,
	}

	require.NoError(t, mp.AddPart(domain.CompletedPart{PartNumber: 1, ETag: "a"}))
	require.NoError(t, mp.AddPart(domain.CompletedPart{PartNumber: 2, ETag: "b"}))
	assert.Len(t, mp.Parts, 2)
}

func TestMultipartUpload_AddPart_Duplicate(t *testing.T) {
	mp := domain.MultipartUpload{
		TotalParts: 3,
		Status:     domain.MultipartStatusInProgress,
		Parts:      []domain.CompletedPart{{PartNumber: 1, ETag: "a"}},
	}

	err := mp.AddPart(domain.CompletedPart{PartNumber: 1, ETag: "other"})

	assert.ErrorIs(t, err, domain.ErrDuplicatePart)
	// the original part set is untouched
	require.Len(t, mp.Parts, 1)
	assert.Equal(t, "a", mp.Parts[0].ETag)
}

func TestMultipartUpload_AddPart_OutOfRange(t *testing.T) {
	mp := domain.MultipartUpload{
		TotalParts: 3,
		Status:     domain.MultipartStatusInProgress,
	}

	assert.ErrorIs(t, mp.AddPart(domain.CompletedPart{PartNumber: 0}), domain.ErrPartNumberOutOfRange)
	assert.ErrorIs(t, mp.AddPart(domain.CompletedPart{PartNumber: 4}), domain.ErrPartNumberOutOfRange)
}

func TestMultipartUpload_AddPart_NotInProgress(t *testing.T) {
	mp := domain.MultipartUpload{
		TotalParts: 3,
		Status:     domain.MultipartStatusAborted,
	}

	assert.ErrorIs(t, mp.AddPart(domain.CompletedPart{PartNumber: 1}), domain.ErrInvalidTransition)
}

func TestMultipartUpload_EnsureComplete(t *testing.T) {
	mp := domain.MultipartUpload{
		TotalParts: 3,
		Parts: []domain.CompletedPart{
			{PartNumber: 2},
			{PartNumber: 1},
			{PartNumber: 3},
		},
	}

	assert.NoError(t, mp.EnsureComplete())
}

func TestMultipartUpload_EnsureComplete_MissingPart(t *testing.T) {
	mp := domain.MultipartUpload{
		TotalParts: 3,
		Parts: []domain.CompletedPart{
			{PartNumber: 1},
			{PartNumber: 3},
		},
	}

	assert.ErrorIs(t, mp.EnsureComplete(), domain.ErrIncompleteParts)
}
