package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks internal consistency of settings that every command relies
// on. Presence of per-stage secrets (API key, OAuth credentials) is checked by
// the stage that needs them so read-only commands keep working without them.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}

	if c.Pacing.ReadDelayMS < 0 {
		return fmt.Errorf("pacing.read_delay_ms: must not be negative, got %d", c.Pacing.ReadDelayMS)
	}
	if c.Pacing.WriteDelayMS < 0 {
		return fmt.Errorf("pacing.write_delay_ms: must not be negative, got %d", c.Pacing.WriteDelayMS)
	}
	if c.YouTube.MaxVideos < 0 {
		return fmt.Errorf("youtube.max_videos: must not be negative, got %d", c.YouTube.MaxVideos)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm.timeout_seconds: must be positive, got %d", c.LLM.TimeoutSeconds)
	}

	for _, base := range []struct {
		name  string
		value string
	}{
		{"youtube.base_url", c.YouTube.BaseURL},
		{"captions.base_url", c.Captions.BaseURL},
		{"oauth.token_url", c.OAuth.TokenURL},
		{"llm.base_url", c.LLM.BaseURL},
	} {
		if strings.TrimSpace(base.value) == "" {
			return fmt.Errorf("%s: must not be empty", base.name)
		}
		if _, err := url.ParseRequestURI(base.value); err != nil {
			return fmt.Errorf("%s: %w", base.name, err)
		}
	}

	for i, link := range c.Describe.Links {
		if strings.TrimSpace(link.Label) == "" {
			return fmt.Errorf("describe.links[%d]: label must not be empty", i)
		}
		if strings.TrimSpace(link.URL) == "" {
			return fmt.Errorf("describe.links[%d]: url must not be empty", i)
		}
	}

	return nil
}
