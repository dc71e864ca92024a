package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/ledger"
	"scribe/internal/pipeline"
	"scribe/internal/stage"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var listOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch caption transcripts for the channel's uploads",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runner, store, err := newFetchRunner(ctx, cfg, logger, limit, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer store.Close()

			if listOnly {
				return listPending(cmd, runner)
			}
			return executeStage(cmd, runner, pipeline.SummaryPath(cfg.Paths.TranscriptsDir, pipeline.StageFetch), logger)
		},
	}

	cmd.Flags().BoolVar(&listOnly, "list", false, "List pending videos without fetching")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of uploads to consider (0 uses youtube.max_videos)")
	return cmd
}

func newFetchRunner(ctx *commandContext, cfg *config.Config, logger *slog.Logger, limit int, progress io.Writer) (*stage.Runner, *ledger.FileStore, error) {
	api, err := ctx.catalogAPI(cfg)
	if err != nil {
		return nil, nil, err
	}
	fetcher, err := ctx.captionsFetcher(cfg)
	if err != nil {
		return nil, nil, err
	}
	led, store, err := openLedger(cfg.Paths.TranscriptsDir, pipeline.StageFetch, "fetched transcripts")
	if err != nil {
		return nil, nil, err
	}

	maxVideos := cfg.YouTube.MaxVideos
	if limit > 0 {
		maxVideos = limit
	}
	runner, err := pipeline.NewFetch(pipeline.FetchConfig{
		ChannelID:      cfg.YouTube.ChannelID,
		MaxVideos:      maxVideos,
		TranscriptsDir: cfg.Paths.TranscriptsDir,
	}, api, fetcher, led, logger, stage.WithProgress(progress))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return runner, store, nil
}
