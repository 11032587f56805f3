package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/mavenfetch/pkg/cache"
	"github.com/matzehuels/mavenfetch/pkg/httputil"
	"github.com/matzehuels/mavenfetch/pkg/observability"
)

// ClientOptions configures a [Client]. The zero value is usable.
type ClientOptions struct {
	Timeout   time.Duration     // Per-request timeout (default: 30s)
	Headers   map[string]string // Headers applied to every request
	Attempts  int               // Attempts per URL for retryable failures (default: 1)
	RateLimit float64           // Requests per second across all repositories (0 = unlimited)
	Burst     int               // Rate limiter burst size (default: 1)
	Cache     cache.Cache       // Persistent response cache (default: null cache)
	CacheTTL  time.Duration     // TTL for cached responses (0 = never expires)
}

// Client provides shared HTTP functionality for Maven repository access.
// It handles rate limiting, retries, response caching and common request
// headers, and reports every request through [observability.HTTP].
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http     *http.Client
	headers  map[string]string
	attempts int
	delay    time.Duration
	limiter  *rate.Limiter
	cache    cache.Cache
	ttl      time.Duration
}

// NewClient creates a Client from opts.
func NewClient(opts ClientOptions) *Client {
	c := &Client{
		http:     NewHTTPClient(opts.Timeout),
		headers:  opts.Headers,
		attempts: max(opts.Attempts, 1),
		delay:    DefaultRetryDelay,
		cache:    opts.Cache,
		ttl:      opts.CacheTTL,
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))
	}
	return c
}

// GetBytes performs a GET request and returns the full response body.
// Retryable failures are retried up to the configured number of attempts.
//
// Returns:
//   - [ErrNotFound] for 404 responses
//   - [ErrNetwork] (wrapped in [httputil.RetryableError]) for transport failures and 5xx
//   - [ErrStatus] for any other non-2xx response
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		body, err := c.doRequest(ctx, http.MethodGet, url)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err = io.ReadAll(body)
		if err != nil {
			return httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
		}
		return nil
	})
	return data, err
}

// GetCached is like [Client.GetBytes] but consults the persistent cache
// first. Only successful responses are stored; failures are never cached.
func (c *Client) GetCached(ctx context.Context, url string) ([]byte, error) {
	key := cache.Key("http", url)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "http")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "http")

	data, err := c.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	if c.cache.Set(ctx, key, data, c.ttl) == nil {
		observability.Cache().OnCacheSet(ctx, "http", len(data))
	}
	return data, nil
}

// Stream performs a GET request and copies the response body to w.
// It returns the number of bytes written. Streams are never retried since
// w may already hold a partial body.
func (c *Client) Stream(ctx context.Context, url string, w io.Writer) (int64, error) {
	body, err := c.doRequest(ctx, http.MethodGet, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()
	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("%w: copy body: %v", ErrNetwork, err)
	}
	return n, nil
}

// Probe sends a HEAD request to url and reports whether the server is
// reachable. Any response below 500 counts as reachable, including 404:
// repository roots frequently refuse directory listings.
func (c *Client) Probe(ctx context.Context, url string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, url string) (io.ReadCloser, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, method, url)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	ctx, host, path := req.Context(), req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrStatus, code)
	}
}
