package port

import (
	"context"
	"io"
)

// FetchResult is an open stream to the remote object. Size is -1 when the
// server did not send a Content-Length.
type FetchResult struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// FetchError is a classified fetch failure. Code is one of the domain
// download error codes (TIMEOUT, CONNECTION_REFUSED, HTTP_<status>, ...).
type FetchError struct {
	Code    string
	Message string
}

func (e *FetchError) Error() string {
	return e.Code + ": " + e.Message
}

// RemoteFetcher downloads a remote URL. Failures are returned as *FetchError
// so callers can decide retry eligibility from the code alone.
type RemoteFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}
