package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/ledger"
	"scribe/internal/pipeline"
	"scribe/internal/stage"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var listOnly bool
	var dryRun bool
	var videoID string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish generated descriptions back to the videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := []stage.Option{stage.WithProgress(cmd.OutOrStdout())}
			if dryRun {
				opts = append(opts, stage.WithDryRun(true))
			}
			if videoID != "" {
				opts = append(opts, stage.WithOnly(videoID))
			}

			runner, store, err := newPublishRunner(cmd.Context(), ctx, cfg, logger, dryRun, opts...)
			if err != nil {
				return err
			}
			defer store.Close()

			if listOnly {
				return listPending(cmd, runner)
			}
			return executeStage(cmd, runner, pipeline.SummaryPath(cfg.Paths.DescriptionsDir, pipeline.StagePublish), logger)
		},
	}

	cmd.Flags().BoolVar(&listOnly, "list", false, "List pending descriptions without publishing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the full flow without writing to the remote or the ledger")
	cmd.Flags().StringVar(&videoID, "video", "", "Publish a single video ID, even if already published")
	return cmd
}

func newPublishRunner(runCtx context.Context, ctx *commandContext, cfg *config.Config, logger *slog.Logger, dryRun bool, opts ...stage.Option) (*stage.Runner, *ledger.FileStore, error) {
	api, err := ctx.publishAPI(runCtx, cfg)
	if err != nil {
		return nil, nil, err
	}
	led, store, err := openLedger(cfg.Paths.DescriptionsDir, pipeline.StagePublish, "published descriptions")
	if err != nil {
		return nil, nil, err
	}

	runner, err := pipeline.NewPublish(pipeline.PublishConfig{
		DescriptionsDir: cfg.Paths.DescriptionsDir,
		DryRun:          dryRun,
	}, api, led, logger, opts...)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return runner, store, nil
}

