package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mavenfetch/pkg/buildinfo"
	"github.com/matzehuels/mavenfetch/pkg/deps/java"
	"github.com/matzehuels/mavenfetch/pkg/errors"
	"github.com/matzehuels/mavenfetch/pkg/integrations"
	"github.com/matzehuels/mavenfetch/pkg/integrations/maven"
)

const (
	defaultOutput   = "."
	defaultCacheTTL = 24 * time.Hour
)

// Config is the run configuration, read from TOML and overridden by flags.
//
// Example config.toml:
//
//	repositories = ["https://repo1.maven.org/maven2", "https://maven.google.com"]
//	output = "lib"
//	timeout = "30s"
//	retries = 2
//	rate_limit = 10.0
//	cache_ttl = "24h"
//	property_precedence = "nearest-wins"
type Config struct {
	Repositories       []string      `toml:"repositories"`
	Output             string        `toml:"output"`
	Timeout            time.Duration `toml:"timeout"`
	Retries            int           `toml:"retries"`
	RateLimit          float64       `toml:"rate_limit"`
	Burst              int           `toml:"burst"`
	CacheTTL           time.Duration `toml:"cache_ttl"`
	NoCache            bool          `toml:"no_cache"`
	PropertyPrecedence string        `toml:"property_precedence"`
	UserAgent          string        `toml:"user_agent"`
}

// loadConfig reads the config file at path. An empty path reads the default
// location when it exists and returns the zero Config otherwise.
func loadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// WithDefaults returns a copy of Config with zero values replaced by defaults.
func (c Config) WithDefaults() Config {
	cfg := c
	if len(cfg.Repositories) == 0 {
		cfg.Repositories = []string{maven.DefaultRepository}
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutput
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = integrations.DefaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = buildinfo.UserAgent()
	}
	return cfg
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "retries must not be negative")
	}
	if c.RateLimit < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rate_limit must not be negative")
	}
	if _, err := java.ParseMergePolicy(c.PropertyPrecedence); err != nil {
		return err
	}
	return errors.ValidatePath(c.Output)
}

// Policy returns the configured property merge policy.
func (c Config) Policy() java.MergePolicy {
	p, _ := java.ParseMergePolicy(c.PropertyPrecedence)
	return p
}

// configFlags holds the flags shared by commands that talk to repositories.
type configFlags struct {
	path         string
	repositories []string
	timeout      time.Duration
	noCache      bool
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "config", "", "config file (default ~/.config/mavenfetch/config.toml)")
	cmd.Flags().StringSliceVarP(&f.repositories, "repository", "r", nil, "repository base URLs, tried in order")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "per-request timeout (default 30s)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the POM response cache")
}

// resolve loads the config file and applies the flags the user set.
func (f *configFlags) resolve(cmd *cobra.Command) (Config, error) {
	cfg, err := loadConfig(f.path)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("repository") {
		cfg.Repositories = f.repositories
	}
	if flags.Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if flags.Changed("no-cache") {
		cfg.NoCache = f.noCache
	}
	return cfg, nil
}
