package deps

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mavenfetch/pkg/deps/java"
	"github.com/matzehuels/mavenfetch/pkg/integrations/maven"
)

// PackageStore saves package binaries. [*maven.Persister] implements it.
type PackageStore interface {
	Save(ctx context.Context, base string, c maven.Coordinate, ext string) (string, int64, error)
}

// Options configures a [Driver].
type Options struct {
	Fetcher      java.Fetcher     // POM source (required)
	Store        PackageStore     // Package destination; nil resolves without downloading
	Policy       java.MergePolicy // Property precedence along parent chains (default: WalkOrder)
	Repositories []string         // Repositories in use, recorded in the report
	Logger       *log.Logger      // nil discards output
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}
