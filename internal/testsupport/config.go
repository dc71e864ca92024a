package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a validated config seeded with unique temp directories
// per test. Secrets are filled with placeholder values so stage wiring does
// not bail out.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = base
	cfg.Paths.TranscriptsDir = filepath.Join(base, "transcripts")
	cfg.Paths.DescriptionsDir = filepath.Join(base, "descriptions")
	cfg.Paths.PostsDir = filepath.Join(base, "posts")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.YouTube.APIKey = "test-api-key"
	cfg.YouTube.ChannelID = "UCtest"
	cfg.LLM.APIKey = "test-llm-key"
	cfg.OAuth.CredentialsFile = filepath.Join(base, "credentials.json")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithChannel overrides the channel ID on the test config.
func WithChannel(channelID string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.YouTube.ChannelID = channelID
	}
}

// WriteConfigFile writes a minimal configuration file rooted at base and
// returns its path, for tests that exercise file-based config loading.
func WriteConfigFile(t testing.TB, base string) string {
	t.Helper()

	path := filepath.Join(base, "config.toml")
	content := fmt.Sprintf("[paths]\ndata_dir = %q\n", filepath.Join(base, "data"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}
