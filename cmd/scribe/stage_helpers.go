package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"scribe/internal/logging"
	"scribe/internal/stage"
)

// listPending prints the work a stage run would perform, without performing
// any of it.
func listPending(cmd *cobra.Command, runner *stage.Runner) error {
	pending, err := runner.Pending(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(pending) == 0 {
		fmt.Fprintln(out, "Nothing to do")
		return nil
	}

	rows := make([][]string, 0, len(pending))
	for i, item := range pending {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), item.Key, item.Title})
	}
	fmt.Fprintln(out, renderTable(out, []string{"#", "KEY", "TITLE"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft}))
	fmt.Fprintf(out, "%d item(s) pending\n", len(pending))
	return nil
}

// executeStage runs the stage, persists the run summary, and prints the
// closing counts line. The run error is returned after the summary is
// handled so operators always get the report.
func executeStage(cmd *cobra.Command, runner *stage.Runner, summaryPath string, logger *slog.Logger) error {
	summary, runErr := runner.Run(cmd.Context())
	if summary != nil {
		if err := summary.Save(summaryPath); err != nil {
			logger.Warn("run summary not saved", logging.Error(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary.Line())
	}
	return runErr
}
