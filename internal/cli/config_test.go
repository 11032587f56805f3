package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mavenfetch/pkg/deps/java"
	"github.com/matzehuels/mavenfetch/pkg/errors"
	"github.com/matzehuels/mavenfetch/pkg/integrations/maven"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
repositories = ["https://mirror.test/maven2", "https://repo1.maven.org/maven2"]
output = "lib"
timeout = "5s"
retries = 2
rate_limit = 4.5
cache_ttl = "1h"
property_precedence = "nearest-wins"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if len(cfg.Repositories) != 2 || cfg.Repositories[0] != "https://mirror.test/maven2" {
		t.Errorf("Repositories = %v", cfg.Repositories)
	}
	if cfg.Output != "lib" || cfg.Timeout != 5*time.Second || cfg.Retries != 2 || cfg.RateLimit != 4.5 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.Policy() != java.NearestWins {
		t.Errorf("Policy() = %v", cfg.Policy())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing explicit file", filepath.Join(t.TempDir(), "nope.toml")},
		{"invalid toml", writeConfig(t, `repositories = [`)},
		{"unknown key", writeConfig(t, `mirrors = ["x"]`)},
		{"wrong type", writeConfig(t, `retries = "many"`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(tt.path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("loadConfig() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoadConfigDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() without file error: %v", err)
	}
	if len(cfg.Repositories) != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}

	dir := filepath.Join(home, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`output = "jars"`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Output != "jars" {
		t.Errorf("Output = %q, want jars", cfg.Output)
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if len(cfg.Repositories) != 1 || cfg.Repositories[0] != maven.DefaultRepository {
		t.Errorf("Repositories = %v", cfg.Repositories)
	}
	if cfg.Output != "." || cfg.Timeout != 30*time.Second || cfg.CacheTTL != 24*time.Hour {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.UserAgent == "" {
		t.Error("UserAgent should default to the build user agent")
	}

	custom := Config{Output: "out", Retries: 3}.WithDefaults()
	if custom.Output != "out" || custom.Retries != 3 {
		t.Errorf("WithDefaults overwrote set values: %+v", custom)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}.WithDefaults(), false},
		{"negative retries", Config{Retries: -1}.WithDefaults(), true},
		{"negative rate", Config{RateLimit: -2}.WithDefaults(), true},
		{"bad precedence", Config{PropertyPrecedence: "child-first"}.WithDefaults(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFlagsOverride(t *testing.T) {
	path := writeConfig(t, `
repositories = ["https://from-file.test"]
timeout = "10s"
`)
	var flags configFlags
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	flags.register(cmd)
	if err := cmd.ParseFlags([]string{"--config", path, "-r", "https://a.test,https://b.test", "--no-cache"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := flags.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if len(cfg.Repositories) != 2 || cfg.Repositories[1] != "https://b.test" {
		t.Errorf("Repositories = %v, want flag values", cfg.Repositories)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want value from file", cfg.Timeout)
	}
	if !cfg.NoCache {
		t.Error("NoCache flag not applied")
	}
}
