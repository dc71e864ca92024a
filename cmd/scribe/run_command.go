package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/pipeline"
	"scribe/internal/stage"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var skipPublish bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all pipeline stages in order",
		Long: "Run fetch, describe, transform, and publish in order. The pipeline\n" +
			"stops at the first fatal error; per-item trouble never stops a stage.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			type stageRun struct {
				name        string
				summaryPath string
				build       func() (*stage.Runner, interface{ Close() error }, error)
			}
			stages := []stageRun{
				{
					name:        pipeline.StageFetch,
					summaryPath: pipeline.SummaryPath(cfg.Paths.TranscriptsDir, pipeline.StageFetch),
					build: func() (*stage.Runner, interface{ Close() error }, error) {
						runner, store, err := newFetchRunner(ctx, cfg, logger, 0, out)
						return runner, store, err
					},
				},
				{
					name:        pipeline.StageDescribe,
					summaryPath: pipeline.SummaryPath(cfg.Paths.DescriptionsDir, pipeline.StageDescribe),
					build: func() (*stage.Runner, interface{ Close() error }, error) {
						runner, store, err := newDescribeRunner(ctx, cfg, logger, out)
						return runner, store, err
					},
				},
				{
					name:        pipeline.StageTransform,
					summaryPath: pipeline.SummaryPath(cfg.Paths.PostsDir, pipeline.StageTransform),
					build: func() (*stage.Runner, interface{ Close() error }, error) {
						runner, store, err := newTransformRunner(ctx, cfg, logger, out)
						return runner, store, err
					},
				},
			}
			if !skipPublish {
				stages = append(stages, stageRun{
					name:        pipeline.StagePublish,
					summaryPath: pipeline.SummaryPath(cfg.Paths.DescriptionsDir, pipeline.StagePublish),
					build: func() (*stage.Runner, interface{ Close() error }, error) {
						runner, store, err := newPublishRunner(cmd.Context(), ctx, cfg, logger, false, stage.WithProgress(out))
						return runner, store, err
					},
				})
			}

			for _, s := range stages {
				fmt.Fprintf(out, "== %s ==\n", s.name)
				runner, store, err := s.build()
				if err != nil {
					return fmt.Errorf("%s: %w", s.name, err)
				}
				err = executeStage(cmd, runner, s.summaryPath, logger)
				store.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", s.name, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPublish, "skip-publish", false, "Stop after transform; do not write to the remote")
	return cmd
}
