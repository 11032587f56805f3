// Package integrations provides the HTTP layer shared by repository clients.
//
// # Overview
//
// [Client] wraps net/http with the behavior every Maven repository access
// needs:
//
//   - Status classification into [ErrNotFound], [ErrNetwork] and [ErrStatus]
//   - Retries of transient failures via [httputil.Retry]
//   - Token-bucket rate limiting (golang.org/x/time/rate)
//   - Optional persistent response caching via [cache.Cache]
//   - Request events reported to [observability.HTTP]
//
// The [maven] subpackage builds the metadata fetcher, repository probe and
// package persistence on top of it.
//
// # Usage
//
//	client := integrations.NewClient(integrations.ClientOptions{
//	    Timeout:   30 * time.Second,
//	    RateLimit: 10,
//	})
//	body, err := client.GetBytes(ctx, integrations.JoinURL(base, path))
//
// [maven]: github.com/matzehuels/mavenfetch/pkg/integrations/maven
// [cache.Cache]: github.com/matzehuels/mavenfetch/pkg/cache.Cache
// [httputil.Retry]: github.com/matzehuels/mavenfetch/pkg/httputil.Retry
// [observability.HTTP]: github.com/matzehuels/mavenfetch/pkg/observability.HTTP
package integrations
