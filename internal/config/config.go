package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the artifact and log directory configuration. Every stage
// writes its artifacts, ledger, and run summaries under one of these
// directories; ledger and summary files carry a leading underscore so
// directory-scan catalogs skip them.
type Paths struct {
	DataDir         string `toml:"data_dir"`
	TranscriptsDir  string `toml:"transcripts_dir"`
	DescriptionsDir string `toml:"descriptions_dir"`
	PostsDir        string `toml:"posts_dir"`
	LogDir          string `toml:"log_dir"`
}

// YouTube contains the catalog API settings for the fetch and publish stages.
type YouTube struct {
	APIKey    string `toml:"api_key"`
	ChannelID string `toml:"channel_id"`
	BaseURL   string `toml:"base_url"`
	MaxVideos int    `toml:"max_videos"`
}

// Captions contains the transcript resource settings.
type Captions struct {
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
}

// OAuth contains the publish-stage credential settings.
type OAuth struct {
	ClientID        string `toml:"client_id"`
	ClientSecret    string `toml:"client_secret"`
	TokenURL        string `toml:"token_url"`
	CredentialsFile string `toml:"credentials_file"`
}

// LLM contains the chat-completion connection settings used by the describe
// and transform stages.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Pacing contains the fixed inter-call delays for external API access.
type Pacing struct {
	ReadDelayMS  int `toml:"read_delay_ms"`
	WriteDelayMS int `toml:"write_delay_ms"`
}

// Link is one labelled URL rendered into the description link block.
type Link struct {
	Label string `toml:"label"`
	URL   string `toml:"url"`
}

// Describe contains the settings for generated video descriptions.
type Describe struct {
	ChannelName string   `toml:"channel_name"`
	Links       []Link   `toml:"links"`
	Hashtags    []string `toml:"hashtags"`
}

// Post contains the settings for transformed long-form documents.
type Post struct {
	Category string   `toml:"category"`
	Project  string   `toml:"project"`
	Tags     []string `toml:"tags"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for scribe.
//
// Configuration sections by subsystem:
//   - Paths: artifact, ledger, and log directories
//   - YouTube: catalog API key, channel, and pagination cap
//   - Captions: transcript resource endpoint and language
//   - OAuth: publish-stage client credentials and token storage
//   - LLM: chat-completion settings for describe/transform
//   - Pacing: fixed inter-call delays (read vs write stages)
//   - Describe: channel links and hashtags for descriptions
//   - Post: category, project, and default tags for long-form posts
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	YouTube  YouTube  `toml:"youtube"`
	Captions Captions `toml:"captions"`
	OAuth    OAuth    `toml:"oauth"`
	LLM      LLM      `toml:"llm"`
	Pacing   Pacing   `toml:"pacing"`
	Describe Describe `toml:"describe"`
	Post     Post     `toml:"post"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scribe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is the
// resolved path, the third whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// normalize expands user paths, fills directory defaults derived from
// DataDir, and applies environment fallbacks for secrets.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(defaultString(c.Paths.DataDir, "~/.local/share/scribe")); err != nil {
		return err
	}
	if c.Paths.TranscriptsDir, err = expandPath(defaultString(c.Paths.TranscriptsDir, filepath.Join(c.Paths.DataDir, "transcripts"))); err != nil {
		return err
	}
	if c.Paths.DescriptionsDir, err = expandPath(defaultString(c.Paths.DescriptionsDir, filepath.Join(c.Paths.DataDir, "descriptions"))); err != nil {
		return err
	}
	if c.Paths.PostsDir, err = expandPath(defaultString(c.Paths.PostsDir, filepath.Join(c.Paths.DataDir, "posts"))); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(defaultString(c.Paths.LogDir, filepath.Join(c.Paths.DataDir, "logs"))); err != nil {
		return err
	}
	if c.OAuth.CredentialsFile, err = expandPath(defaultString(c.OAuth.CredentialsFile, filepath.Join(c.Paths.DataDir, "credentials.json"))); err != nil {
		return err
	}

	if strings.TrimSpace(c.YouTube.APIKey) == "" {
		c.YouTube.APIKey = strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY"))
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		c.LLM.APIKey = strings.TrimSpace(os.Getenv("SCRIBE_LLM_API_KEY"))
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// EnsureDirectories creates the artifact and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.TranscriptsDir, c.Paths.DescriptionsDir, c.Paths.PostsDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
