package maven

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mavenfetch/pkg/errors"
	"github.com/matzehuels/mavenfetch/pkg/integrations"
)

// ProbeRepositories validates, normalizes and de-duplicates urls, then keeps
// those that answer a HEAD request on their base URL. Any response below 500
// counts as reachable because many repositories refuse directory listings.
// Input order is preserved.
//
// It returns NO_REPOSITORY when nothing is left.
func ProbeRepositories(ctx context.Context, client *integrations.Client, urls []string, logger *log.Logger) ([]string, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	seen := make(map[string]bool, len(urls))
	var reachable []string
	for _, raw := range urls {
		if err := errors.ValidateRepositoryURL(raw); err != nil {
			logger.Warn("ignoring repository", "url", raw, "err", errors.UserMessage(err))
			continue
		}
		base := integrations.NormalizeBaseURL(raw)
		if seen[base] {
			continue
		}
		seen[base] = true

		if err := client.Probe(ctx, base+"/"); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("repository unreachable", "code", errors.ErrCodeTransport, "url", base, "err", err)
			continue
		}
		logger.Debug("repository reachable", "url", base)
		reachable = append(reachable, base)
	}

	if len(reachable) == 0 {
		return nil, errors.New(errors.ErrCodeNoRepository, "no reachable repository among %d configured", len(urls))
	}
	return reachable, nil
}
