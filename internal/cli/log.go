package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing timestamped "HH:MM:SS.ms" lines to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of one operation. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Resolved 42 coordinates (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHTTPHooks reports repository traffic at debug level.
type logHTTPHooks struct {
	logger *log.Logger
}

func (h logHTTPHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h logHTTPHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path,
		"status", status, "took", d.Round(time.Millisecond))
}

func (h logHTTPHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}

// logResolveHooks reports resolution progress at debug level.
type logResolveHooks struct {
	logger *log.Logger
}

func (h logResolveHooks) OnResolveStart(_ context.Context, coord string) {
	h.logger.Debug("resolving", "coord", coord)
}

func (h logResolveHooks) OnResolveComplete(_ context.Context, coord string, deps int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("resolve failed", "coord", coord, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("model built", "coord", coord, "deps", deps, "took", d.Round(time.Millisecond))
}

func (h logResolveHooks) OnDownload(_ context.Context, coord, path string, size int64, err error) {
	if err != nil {
		h.logger.Debug("download attempt failed", "coord", coord, "err", err)
		return
	}
	h.logger.Debug("package written", "coord", coord, "path", path, "bytes", size)
}

// logCacheHooks reports persistent cache traffic at debug level.
type logCacheHooks struct {
	logger *log.Logger
}

func (h logCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h logCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h logCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache store", "kind", keyType, "bytes", size)
}
