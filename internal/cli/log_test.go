package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Resolved 3 coordinates")

	if !strings.Contains(buf.String(), "Resolved 3 coordinates (") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should fall back to the default logger")
	}
}

func TestLogHTTPHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := logHTTPHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	hooks.OnRequest(ctx, "GET", "repo.test", "/g/a/1/a-1.pom")
	hooks.OnResponse(ctx, "GET", "repo.test", "/g/a/1/a-1.pom", 404, time.Millisecond)
	hooks.OnError(ctx, "HEAD", "down.test", "/", errors.New("connection refused"))

	out := buf.String()
	for _, want := range []string{"request", "status=404", "connection refused"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	quiet := logHTTPHooks{logger: newLogger(&buf, log.InfoLevel)}
	quiet.OnRequest(ctx, "GET", "repo.test", "/")
	if buf.Len() != 0 {
		t.Error("HTTP hooks should only log at debug level")
	}
}

func TestLogResolveHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := logResolveHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	hooks.OnResolveStart(ctx, "g:a:1")
	hooks.OnResolveComplete(ctx, "g:a:1", 3, 2*time.Millisecond, nil)
	hooks.OnResolveComplete(ctx, "g:b:1", 0, time.Millisecond, errors.New("no POM"))
	hooks.OnDownload(ctx, "g:a:1", "/out/a-1.jar", 42, nil)

	out := buf.String()
	for _, want := range []string{"resolving", "deps=3", "no POM", "bytes=42"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}
}

func TestLogCacheHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := logCacheHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	hooks.OnCacheMiss(ctx, "http")
	hooks.OnCacheSet(ctx, "http", 128)
	hooks.OnCacheHit(ctx, "http")

	out := buf.String()
	for _, want := range []string{"cache miss", "bytes=128", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	quiet := logCacheHooks{logger: newLogger(&buf, log.InfoLevel)}
	quiet.OnCacheHit(ctx, "http")
	if buf.Len() != 0 {
		t.Error("cache hooks should only log at debug level")
	}
}
