package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"blobvault/internal/config"
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"
)

// Adapter downloads remote objects over HTTP
type Adapter struct {
	client       *http.Client
	maxRedirects int
}

// NewAdapter returns Adapter
func NewAdapter(cfg config.DownloadConfig) *Adapter {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ConnectTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	a := &Adapter{maxRedirects: cfg.MaxRedirects}
	a.client = &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= a.maxRedirects {
				return fmt.Errorf("stopped after %d redirects", a.maxRedirects)
			}
			return nil
		},
	}
	return a
}

// Fetch opens a stream to url. Failures come back as *port.FetchError so the
// caller can decide retry eligibility from the code. The caller owns Body and
// must close it.
func (a *Adapter) Fetch(ctx context.Context, url string) (*port.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &port.FetchError{Code: domain.ErrorCodeInternal, Message: err.Error()}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &port.FetchError{
			Code:    domain.HTTPErrorCode(resp.StatusCode),
			Message: fmt.Sprintf("remote returned %s", resp.Status),
		}
	}

	return &port.FetchResult{
		Body:        resp.Body,
		Size:        resp.ContentLength,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func classify(err error) *port.FetchError {
	var netErr net.Error
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return &port.FetchError{Code: domain.ErrorCodeTimeout, Message: err.Error()}
	case errors.As(err, &dnsErr):
		if dnsErr.IsTimeout {
			return &port.FetchError{Code: domain.ErrorCodeTimeout, Message: err.Error()}
		}
		// an unresolvable host stays unresolvable for this URL
		return &port.FetchError{Code: domain.ErrorCodeInternal, Message: err.Error()}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &port.FetchError{Code: domain.ErrorCodeTimeout, Message: err.Error()}
	case errors.Is(err, syscall.ECONNREFUSED):
		return &port.FetchError{Code: domain.ErrorCodeConnectionRefused, Message: err.Error()}
	default:
		// redirect caps, TLS failures and other unclassified transport
		// errors are permanent for a given URL
		return &port.FetchError{Code: domain.ErrorCodeInternal, Message: err.Error()}
	}
}
