package domain

import (
	"time"

	"github.com/google/uuid"
)

// UploadSessionStatus represents the status of an upload session.
// The string values are part of the wire contract.
type UploadSessionStatus string

const (
	UploadSessionStatusInitiated  UploadSessionStatus = "INITIATED"
	UploadSessionStatusInProgress UploadSessionStatus = "IN_PROGRESS"
	UploadSessionStatusCompleted  UploadSessionStatus = "COMPLETED"
	UploadSessionStatusFailed     UploadSessionStatus = "FAILED"
	UploadSessionStatusExpired    UploadSessionStatus = "EXPIRED"
)

// UploadType represents how the object bytes reach storage
type UploadType string

const (
	UploadTypeSingle    UploadType = "SINGLE"
	UploadTypeMultipart UploadType = "MULTIPART"
)

// UploadSession represents one client intent to upload a file
type UploadSession struct {
	ID            uuid.UUID
	SessionKey    string
	TenantID      string
	FileName      string
	FileSize      int64
	ContentType   string
	UploadType    UploadType
	StorageKey    string
	Status        UploadSessionStatus
	FailureReason string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
	FailedAt      *time.Time
}

// IsTerminal reports whether the session can no longer change state
func (s *UploadSession) IsTerminal() bool {
	switch s.Status {
	case UploadSessionStatusCompleted, UploadSessionStatusFailed, UploadSessionStatusExpired:
		return true
	}
	return false
}

// MarkInProgress moves the session from INITIATED to IN_PROGRESS. Calling it
// on an already IN_PROGRESS session is a no-op.
func (s *UploadSession) MarkInProgress() error {
	switch s.Status {
	case UploadSessionStatusInitiated:
		s.Status = UploadSessionStatusInProgress
		return nil
	case UploadSessionStatusInProgress:
		return nil
	case UploadSessionStatusExpired:
		return ErrSessionExpired
	default:
		return ErrSessionTerminal
	}
}

// Complete flips a non-terminal session to COMPLETED
func (s *UploadSession) Complete(now time.Time) error {
	if s.IsTerminal() {
		if s.Status == UploadSessionStatusExpired {
			return ErrSessionExpired
		}
		return ErrSessionTerminal
	}
	s.Status = UploadSessionStatusCompleted
	s.CompletedAt = &now
	return nil
}

// Fail flips a non-terminal session to FAILED with a reason
func (s *UploadSession) Fail(reason string, now time.Time) error {
	if s.IsTerminal() {
		return ErrSessionTerminal
	}
	s.Status = UploadSessionStatusFailed
	s.FailureReason = reason
	s.FailedAt = &now
	return nil
}

// Expire flips a non-terminal session to EXPIRED. Expiring a terminal session
// is a no-op, never an error: the expiry listener and the fallback sweep may
// both fire for the same session.
func (s *UploadSession) Expire() bool {
	if s.IsTerminal() {
		return false
	}
	s.Status = UploadSessionStatusExpired
	return true
}

// MultipartStatus represents the status of the provider-side multipart upload
type MultipartStatus string

const (
	MultipartStatusInProgress MultipartStatus = "IN_PROGRESS"
	MultipartStatusCompleted  MultipartStatus = "COMPLETED"
	MultipartStatusAborted    MultipartStatus = "ABORTED"
)

// CompletedPart is one uploaded chunk acknowledged by the client
type CompletedPart struct {
	PartNumber int
	ETag       string
	Size       int64
}

// MultipartUpload is the child record of a MULTIPART session
type MultipartUpload struct {
	SessionID        uuid.UUID
	ProviderUploadID string
	PartSize         int64
	TotalParts       int
	Parts            []CompletedPart
	Status           MultipartStatus
}

// TotalPartsFor computes ceil(fileSize / partSize)
func TotalPartsFor(fileSize, partSize int64) int {
	if partSize <= 0 {
		return 0
	}
	return int((fileSize + partSize - 1) / partSize)
}

// AddPart appends a completed part after validating the part number. A
// duplicate part number leaves Parts unchanged.
func (m *MultipartUpload) AddPart(part CompletedPart) error {
	if m.Status != MultipartStatusInProgress {
		return ErrInvalidTransition
	}
	if part.PartNumber < 1 || part.PartNumber > m.TotalParts {
		return ErrPartNumberOutOfRange
	}
	for _, p := range m.Parts {
		if p.PartNumber == part.PartNumber {
			return ErrDuplicatePart
		}
	}
	m.Parts = append(m.Parts, part)
	return nil
}

// EnsureComplete verifies the part set is exactly {1..TotalParts}
func (m *MultipartUpload) EnsureComplete() error {
	if len(m.Parts) != m.TotalParts {
		return ErrIncompleteParts
	}
	seen := make(map[int]bool, len(m.Parts))
	for _, p := range m.Parts {
		if p.PartNumber < 1 || p.PartNumber > m.TotalParts || seen[p.PartNumber] {
			return ErrIncompleteParts
		}
		seen[p.PartNumber] = true
	}
	return nil
}

// UploadPart carries presigned part information back to the client
type UploadPart struct {
	PartNumber   int
	PresignedURL string
	Headers      map[string]string
	ExpiresAt    *time.Time
}
