// Package httputil provides HTTP utilities for repository clients.
//
// # Retry
//
// [Retry] re-runs an operation that failed with a transient error:
//
//   - Connection failures (refused, reset, DNS, TLS)
//   - Timeouts
//   - 5xx server errors
//
// Only errors wrapped with [Retryable] (or a [RetryableError] literal) are
// retried; everything else, including 404 responses, is returned at once.
// The delay doubles after every failed attempt:
//
//	err := httputil.Retry(ctx, 3, 200*time.Millisecond, func() error {
//	    return fetch(ctx, url)
//	})
//
// With attempts set to 1 the operation runs exactly once, which is the
// default for repository lookups: a failing repository is skipped in favor
// of the next one rather than hammered.
package httputil
