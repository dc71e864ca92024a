package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scribe/internal/ledger"
	"scribe/internal/pipeline"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-stage ledger progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			stages := []struct {
				name string
				dir  string
			}{
				{pipeline.StageFetch, cfg.Paths.TranscriptsDir},
				{pipeline.StageDescribe, cfg.Paths.DescriptionsDir},
				{pipeline.StageTransform, cfg.Paths.PostsDir},
				{pipeline.StagePublish, cfg.Paths.DescriptionsDir},
			}

			rows := make([][]string, 0, len(stages))
			for _, s := range stages {
				file, err := ledger.Inspect(pipeline.LedgerPath(s.dir, s.name))
				if err != nil {
					return fmt.Errorf("read %s ledger: %w", s.name, err)
				}
				updated := "never"
				if !file.LastUpdated.IsZero() {
					updated = file.LastUpdated.Local().Format("2006-01-02 15:04:05")
				}
				rows = append(rows, []string{
					s.name,
					strconv.Itoa(file.TotalEntries),
					updated,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"STAGE", "COMPLETED", "LAST UPDATED"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
}
