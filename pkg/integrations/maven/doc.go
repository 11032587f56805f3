// Package maven provides access to Maven repositories.
//
// # Coordinates
//
// A [Coordinate] names one package version as groupId, artifactId and
// version. Repository paths derive from it: the groupId's dots become
// directory separators, followed by the artifactId and version directories
// and the "<artifactId>-<version>.<ext>" file name.
//
// # Fetching POMs
//
// A [Fetcher] tries each configured repository in order and returns the first
// POM found together with the repository that served it. Results, including
// misses, are memoized for the lifetime of the Fetcher:
//
//	client := integrations.NewClient(integrations.ClientOptions{})
//	f := maven.NewFetcher(client, []string{maven.DefaultRepository}, logger)
//	doc, ok := f.Fetch(ctx, coord)
//
// # Downloading packages
//
// A [Persister] streams a package file from its source repository into an
// output directory. [ProbeRepositories] filters a configured repository list
// down to the reachable ones before a run starts.
package maven
