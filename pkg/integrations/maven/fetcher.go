package maven

import (
	"context"
	stderrors "errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mavenfetch/pkg/errors"
	"github.com/matzehuels/mavenfetch/pkg/integrations"
)

// DefaultRepository is Maven Central.
const DefaultRepository = "https://repo1.maven.org/maven2"

// Document is a fetched POM together with the repository it came from.
type Document struct {
	Coordinate Coordinate
	Source     string // base URL of the repository that served the POM
	Body       []byte
}

type fetchResult struct {
	doc   Document
	found bool
}

// Fetcher locates POM documents across an ordered list of repositories.
//
// Repositories are tried in order and the first one that serves the POM
// becomes the Document source. Both hits and misses are memoized for the
// lifetime of the Fetcher, so every coordinate touches the network at most
// once per run. Successful bodies also go through the client's persistent
// cache; misses never do.
//
// Fetcher is safe for concurrent use.
type Fetcher struct {
	client *integrations.Client
	repos  []string
	logger *log.Logger

	mu   sync.Mutex
	memo map[Coordinate]fetchResult
}

// NewFetcher creates a Fetcher over repos. An empty list falls back to
// [DefaultRepository]. A nil logger discards output.
func NewFetcher(client *integrations.Client, repos []string, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	normalized := make([]string, 0, len(repos))
	for _, r := range repos {
		if r = integrations.NormalizeBaseURL(r); r != "" {
			normalized = append(normalized, r)
		}
	}
	if len(normalized) == 0 {
		normalized = []string{DefaultRepository}
	}
	return &Fetcher{
		client: client,
		repos:  normalized,
		logger: logger,
		memo:   make(map[Coordinate]fetchResult),
	}
}

// Repositories returns the ordered base URLs the Fetcher consults.
func (f *Fetcher) Repositories() []string {
	return append([]string(nil), f.repos...)
}

// Fetch returns the POM for c from the first repository that serves it.
// The boolean is false when no repository has it. Transport failures on one
// repository are logged and the next repository is tried. A cancelled
// context yields a miss that is not memoized.
func (f *Fetcher) Fetch(ctx context.Context, c Coordinate) (Document, bool) {
	f.mu.Lock()
	if r, ok := f.memo[c]; ok {
		f.mu.Unlock()
		return r.doc, r.found
	}
	f.mu.Unlock()

	doc, found := f.fetch(ctx, c)
	if ctx.Err() != nil && !found {
		return Document{}, false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.memo[c]; ok {
		return r.doc, r.found
	}
	f.memo[c] = fetchResult{doc: doc, found: found}
	return doc, found
}

func (f *Fetcher) fetch(ctx context.Context, c Coordinate) (Document, bool) {
	path := c.POMPath()
	for _, repo := range f.repos {
		if ctx.Err() != nil {
			return Document{}, false
		}
		body, err := f.client.GetCached(ctx, integrations.JoinURL(repo, path))
		if err == nil {
			f.logger.Debug("pom found", "coord", c.String(), "repo", repo)
			return Document{Coordinate: c, Source: repo, Body: body}, true
		}
		if stderrors.Is(err, integrations.ErrNotFound) {
			f.logger.Debug("pom not in repository", "coord", c.String(), "repo", repo)
			continue
		}
		if ctx.Err() != nil {
			return Document{}, false
		}
		f.logger.Warn("repository request failed",
			"code", errors.ErrCodeTransport, "coord", c.String(), "repo", repo, "err", err)
	}
	f.logger.Warn("pom not found in any repository",
		"code", errors.ErrCodeMetadataUnavailable, "coord", c.String())
	return Document{}, false
}
