package fetch_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blobvault/internal/adapters/fetch"
	"blobvault/internal/config"
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.DownloadConfig {
	return config.DownloadConfig{
		ConnectTimeout: 2 * time.Second,
		OverallTimeout: 5 * time.Second,
		MaxRedirects:   5,
	}
}

func TestFetch_Success(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("file-bytes"))
	}))
	defer server.Close()

	adapter := fetch.NewAdapter(testConfig())

	// Act
	result, err := adapter.Fetch(context.Background(), server.URL)

	// Assert
	require.NoError(t, err)
	defer result.Body.Close()

	body, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.Equal(t, "file-bytes", string(body))
	assert.Equal(t, int64(len("file-bytes")), result.Size)
	assert.Equal(t, "application/pdf", result.ContentType)
}

func TestFetch_HTTPError(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		expectedCode string
	}{
		{name: "not found", status: http.StatusNotFound, expectedCode: "HTTP_404"},
		{name: "forbidden", status: http.StatusForbidden, expectedCode: "HTTP_403"},
		{name: "server error", status: http.StatusInternalServerError, expectedCode: "HTTP_500"},
		{name: "bad gateway", status: http.StatusBadGateway, expectedCode: "HTTP_502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			adapter := fetch.NewAdapter(testConfig())

			// Act
			_, err := adapter.Fetch(context.Background(), server.URL)

			// Assert
			var fe *port.FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.expectedCode, fe.Code)
		})
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	// Arrange - grab a port nobody is listening on
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	adapter := fetch.NewAdapter(testConfig())

	// Act
	_, err := adapter.Fetch(context.Background(), url)

	// Assert
	var fe *port.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.ErrorCodeConnectionRefused, fe.Code)
}

func TestFetch_Timeout(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	adapter := fetch.NewAdapter(testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Act
	_, err := adapter.Fetch(ctx, server.URL)

	// Assert
	var fe *port.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.ErrorCodeTimeout, fe.Code)
}

func TestFetch_RedirectLimit(t *testing.T) {
	// Arrange - a server that always redirects to itself
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL, http.StatusFound)
	}))
	defer server.Close()

	adapter := fetch.NewAdapter(testConfig())

	// Act
	_, err := adapter.Fetch(context.Background(), server.URL)

	// Assert - a redirect loop is permanent for a URL, never worth retrying
	require.Error(t, err)
	var fe *port.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, domain.ErrorCodeInternal, fe.Code)
	assert.False(t, domain.RetryableErrorCode(fe.Code))
}

func TestFetch_UnresolvableHost(t *testing.T) {
	// Arrange - .invalid is reserved and never resolves
	adapter := fetch.NewAdapter(testConfig())

	// Act
	_, err := adapter.Fetch(context.Background(), "http://host.invalid/archive.zip")

	// Assert
	var fe *port.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.ErrorCodeInternal, fe.Code)
	assert.False(t, domain.RetryableErrorCode(fe.Code))
}

func TestFetch_FollowsRedirects(t *testing.T) {
	// Arrange
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("redirected-content"))
	}))
	defer target.Close()

	hops := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer hops.Close()

	adapter := fetch.NewAdapter(testConfig())

	// Act
	result, err := adapter.Fetch(context.Background(), hops.URL)

	// Assert
	require.NoError(t, err)
	defer result.Body.Close()
	body, _ := io.ReadAll(result.Body)
	assert.Equal(t, "redirected-content", string(body))
}
