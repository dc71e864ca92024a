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

func newDescribeCommand(ctx *commandContext) *cobra.Command {
	var listOnly bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Generate video descriptions from fetched transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runner, store, err := newDescribeRunner(ctx, cfg, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer store.Close()

			if listOnly {
				return listPending(cmd, runner)
			}
			return executeStage(cmd, runner, pipeline.SummaryPath(cfg.Paths.DescriptionsDir, pipeline.StageDescribe), logger)
		},
	}

	cmd.Flags().BoolVar(&listOnly, "list", false, "List pending transcripts without generating")
	return cmd
}

func newDescribeRunner(ctx *commandContext, cfg *config.Config, logger *slog.Logger, progress io.Writer) (*stage.Runner, *ledger.FileStore, error) {
	completer, err := ctx.completer(cfg)
	if err != nil {
		return nil, nil, err
	}
	led, store, err := openLedger(cfg.Paths.DescriptionsDir, pipeline.StageDescribe, "generated descriptions")
	if err != nil {
		return nil, nil, err
	}

	runner, err := pipeline.NewDescribe(pipeline.DescribeConfig{
		TranscriptsDir:  cfg.Paths.TranscriptsDir,
		DescriptionsDir: cfg.Paths.DescriptionsDir,
		ChannelName:     cfg.Describe.ChannelName,
		Links:           cfg.Describe.Links,
		Hashtags:        cfg.Describe.Hashtags,
	}, completer, led, logger, stage.WithProgress(progress))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return runner, store, nil
}
