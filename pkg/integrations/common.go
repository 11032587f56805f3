package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single HTTP request to a repository.
	DefaultTimeout = 30 * time.Second

	// DefaultRetryDelay is the initial backoff between attempts against one URL.
	DefaultRetryDelay = 250 * time.Millisecond
)

var (
	// ErrNotFound is returned when the repository answers 404 for a path.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures (timeouts, DNS, TLS,
	// refused connections) and 5xx responses.
	ErrNetwork = errors.New("network error")

	// ErrStatus is returned for any other non-2xx response.
	ErrStatus = errors.New("unexpected status")
)

// NewHTTPClient creates an HTTP client with the given per-request timeout.
// A non-positive timeout selects [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NormalizeBaseURL trims whitespace and trailing slashes from a repository
// base URL so that "<base>/<path>" never contains a doubled separator.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// JoinURL joins a normalized base URL and a relative repository path.
func JoinURL(base, path string) string {
	return NormalizeBaseURL(base) + "/" + strings.TrimLeft(path, "/")
}
