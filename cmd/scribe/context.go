package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"scribe/internal/auth"
	"scribe/internal/config"
	"scribe/internal/ledger"
	"scribe/internal/logging"
	"scribe/internal/pipeline"
	"scribe/internal/services"
	"scribe/internal/services/captions"
	"scribe/internal/services/llm"
	"scribe/internal/services/youtube"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		writer := io.Writer(os.Stderr)
		if file, err := logging.OpenLogFile(filepath.Join(cfg.Paths.LogDir, "scribe.log")); err == nil {
			writer = io.MultiWriter(os.Stderr, file)
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Writer: writer,
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) readPacer(cfg *config.Config) *services.Pacer {
	return services.NewPacer(time.Duration(cfg.Pacing.ReadDelayMS) * time.Millisecond)
}

func (c *commandContext) writePacer(cfg *config.Config) *services.Pacer {
	return services.NewPacer(time.Duration(cfg.Pacing.WriteDelayMS) * time.Millisecond)
}

func (c *commandContext) catalogAPI(cfg *config.Config) (youtube.CatalogAPI, error) {
	if strings.TrimSpace(cfg.YouTube.APIKey) == "" {
		return nil, fmt.Errorf("youtube.api_key is not set (or export YOUTUBE_API_KEY)")
	}
	return youtube.New(cfg.YouTube.APIKey, cfg.YouTube.BaseURL, c.readPacer(cfg))
}

func (c *commandContext) captionsFetcher(cfg *config.Config) (captions.Fetcher, error) {
	return captions.New(cfg.Captions.BaseURL, cfg.Captions.Language, c.readPacer(cfg))
}

func (c *commandContext) completer(cfg *config.Config) (llm.Completer, error) {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		return nil, fmt.Errorf("llm.api_key is not set (or export SCRIBE_LLM_API_KEY)")
	}
	return llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL,
		llm.WithModel(cfg.LLM.Model),
		llm.WithTimeout(time.Duration(cfg.LLM.TimeoutSeconds)*time.Second))
}

// publishAPI loads the credential record and builds an authorized write
// client. A missing record fails here, before any catalog enumeration.
func (c *commandContext) publishAPI(ctx context.Context, cfg *config.Config) (youtube.PublishAPI, error) {
	manager, err := auth.NewManager(cfg.OAuth.CredentialsFile, cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, cfg.OAuth.TokenURL)
	if err != nil {
		return nil, err
	}
	if err := manager.Load(); err != nil {
		return nil, err
	}
	httpClient, err := manager.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	return youtube.New(cfg.YouTube.APIKey, cfg.YouTube.BaseURL, c.writePacer(cfg),
		youtube.WithHTTPClient(httpClient))
}

// openLedger opens the locked file-backed ledger for a stage inside its
// artifact directory. The caller must Close the returned store when the run
// finishes.
func openLedger(dir, stage, description string) (*ledger.Ledger, *ledger.FileStore, error) {
	store, err := ledger.NewFileStore(pipeline.LedgerPath(dir, stage))
	if err != nil {
		return nil, nil, err
	}
	led, err := ledger.Open(store, description)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return led, store, nil
}
