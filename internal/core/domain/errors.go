package domain

import "errors"

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")

// ErrSessionNotFound is an error thrown when session is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExpired is an error thrown when session is expired
var ErrSessionExpired = errors.New("session expired")

// ErrSessionTerminal is an error thrown when session is already in a terminal state
var ErrSessionTerminal = errors.New("session already terminal")

// ErrDuplicatePart is an error thrown when a part number is uploaded twice
var ErrDuplicatePart = errors.New("duplicate part number")

// ErrPartNumberOutOfRange is an error thrown when a part number is outside [1, totalParts]
var ErrPartNumberOutOfRange = errors.New("part number out of range")

// ErrIncompleteParts is an error thrown when completion is requested with missing parts
var ErrIncompleteParts = errors.New("incomplete parts")

// ErrNotMultipart is an error thrown when a multipart operation targets a single upload
var ErrNotMultipart = errors.New("not a multipart session")

// ErrSizeMismatch is an error thrown when the stored object size differs from the declared size
var ErrSizeMismatch = errors.New("size mismatch")

// ErrMismatchETag is an error thrown when etags mismatch
var ErrMismatchETag = errors.New("mismatched ETag")

// ErrFileSizeTooBig is an error thrown when file size is too big
var ErrFileSizeTooBig = errors.New("file size too big")

// ErrInvalidFileSize is an error thrown when file size is not positive
var ErrInvalidFileSize = errors.New("invalid file size")

// ErrInvalidSourceURL is an error thrown when a download source url is not http/https
var ErrInvalidSourceURL = errors.New("invalid source url")

// ErrDownloadNotFound is an error thrown when a download is not found
var ErrDownloadNotFound = errors.New("download not found")

// ErrInvalidTransition is an error thrown when a state transition is not allowed
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrOutboxNotFound is an error thrown when an outbox record is not found
var ErrOutboxNotFound = errors.New("outbox record not found")

// ErrAssetNotFound is an error thrown when an asset is not found
var ErrAssetNotFound = errors.New("asset not found")

// CodeOf maps a domain error to its wire error code. Unknown errors map to
// INTERNAL so handlers never leak raw error text as a code.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return "SESSION_NOT_FOUND"
	case errors.Is(err, ErrSessionExpired):
		return "SESSION_EXPIRED"
	case errors.Is(err, ErrSessionTerminal):
		return "SESSION_TERMINAL"
	case errors.Is(err, ErrDuplicatePart):
		return "DUPLICATE_PART_NUMBER"
	case errors.Is(err, ErrPartNumberOutOfRange):
		return "PART_NUMBER_OUT_OF_RANGE"
	case errors.Is(err, ErrIncompleteParts):
		return "INCOMPLETE_PARTS"
	case errors.Is(err, ErrNotMultipart):
		return "NOT_MULTIPART"
	case errors.Is(err, ErrSizeMismatch):
		return "SIZE_MISMATCH"
	case errors.Is(err, ErrMismatchETag):
		return "ETAG_MISMATCH"
	case errors.Is(err, ErrFileSizeTooBig):
		return "FILE_TOO_BIG"
	case errors.Is(err, ErrInvalidFileSize):
		return "INVALID_FILE_SIZE"
	case errors.Is(err, ErrInvalidSourceURL):
		return "INVALID_SOURCE_URL"
	case errors.Is(err, ErrDownloadNotFound):
		return "DOWNLOAD_NOT_FOUND"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrAlreadyExists):
		return "ALREADY_EXISTS"
	default:
		return "INTERNAL"
	}
}
