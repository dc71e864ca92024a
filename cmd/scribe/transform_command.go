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

func newTransformCommand(ctx *commandContext) *cobra.Command {
	var listOnly bool

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform fetched transcripts into long-form posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runner, store, err := newTransformRunner(ctx, cfg, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer store.Close()

			if listOnly {
				return listPending(cmd, runner)
			}
			return executeStage(cmd, runner, pipeline.SummaryPath(cfg.Paths.PostsDir, pipeline.StageTransform), logger)
		},
	}

	cmd.Flags().BoolVar(&listOnly, "list", false, "List pending transcripts without transforming")
	return cmd
}

func newTransformRunner(ctx *commandContext, cfg *config.Config, logger *slog.Logger, progress io.Writer) (*stage.Runner, *ledger.FileStore, error) {
	completer, err := ctx.completer(cfg)
	if err != nil {
		return nil, nil, err
	}
	led, store, err := openLedger(cfg.Paths.PostsDir, pipeline.StageTransform, "transformed posts")
	if err != nil {
		return nil, nil, err
	}

	runner, err := pipeline.NewTransform(pipeline.TransformConfig{
		TranscriptsDir:  cfg.Paths.TranscriptsDir,
		DescriptionsDir: cfg.Paths.DescriptionsDir,
		PostsDir:        cfg.Paths.PostsDir,
		Project:         cfg.Post.Project,
		Tags:            cfg.Post.Tags,
	}, completer, pipeline.StaticClassifier{Category: cfg.Post.Category}, led, logger, stage.WithProgress(progress))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return runner, store, nil
}
