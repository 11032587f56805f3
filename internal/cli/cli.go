// Package cli implements the mavenfetch command-line interface.
//
// # Commands
//
//   - fetch: resolve coordinates transitively and download their packages
//   - resolve: print the resolved direct dependencies of one coordinate
//   - cache: manage the POM response cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and retrieved with loggerFromContext.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mavenfetch/pkg/buildinfo"
	"github.com/matzehuels/mavenfetch/pkg/cache"
	"github.com/matzehuels/mavenfetch/pkg/integrations"
	"github.com/matzehuels/mavenfetch/pkg/observability"
)

// appName is the application name used for directories and display.
const appName = "mavenfetch"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Resolve and download Maven artifacts with their transitive dependencies",
		Long:         `mavenfetch resolves the transitive runtime dependencies of Maven coordinates (groupId:artifactId:version) across one or more repositories and downloads every package into a local directory.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.SetHTTPHooks(logHTTPHooks{logger: c.Logger})
			observability.SetResolveHooks(logResolveHooks{logger: c.Logger})
			observability.SetCacheHooks(logCacheHooks{logger: c.Logger})
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newClient builds the shared repository client for cfg.
func newClient(cfg Config) (*integrations.Client, error) {
	store, err := newCache(cfg.NoCache)
	if err != nil {
		return nil, err
	}
	return integrations.NewClient(integrations.ClientOptions{
		Timeout:   cfg.Timeout,
		Headers:   map[string]string{"User-Agent": cfg.UserAgent},
		Attempts:  cfg.Retries + 1,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
		Cache:     store,
		CacheTTL:  cfg.CacheTTL,
	}), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/mavenfetch/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configPath returns the default config file location
// (~/.config/mavenfetch/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
