// Package deps drives transitive resolution and download of Maven packages.
//
// A [Driver] starts from one or more root coordinates, builds the effective
// metadata of each coordinate with [java.NewModel], downloads the package
// from the repository that served its POM, and recurses depth first into
// every resolved dependency. Each coordinate is processed at most once per
// run.
//
//	d := deps.NewDriver(deps.Options{
//	    Fetcher: maven.NewFetcher(client, repos, logger),
//	    Store:   maven.NewPersister(client, outDir),
//	    Logger:  logger,
//	})
//	report := d.Run(ctx, roots)
//
// The returned [Report] lists downloaded and skipped coordinates and the
// version conflicts found. [Driver.Graph] holds the resolution graph.
//
// [java.NewModel]: github.com/matzehuels/mavenfetch/pkg/deps/java.NewModel
package deps
