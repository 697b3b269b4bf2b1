package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"timbre/internal/dataset"
	"timbre/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded evaluation runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			exists, err := dataset.Exists(cfg.History.Path)
			if err != nil {
				return err
			}
			if !exists {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			store, err := runstore.Open(cmd.Context(), cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, len(runs))
			for i, run := range runs {
				rows[i] = []string{
					shortID(run.ID),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					strconv.Itoa(run.K),
					strconv.FormatFloat(run.SplitProbability, 'f', -1, 64),
					strconv.FormatUint(run.Seed, 10),
					strconv.Itoa(run.TrainingSize),
					strconv.Itoa(run.TestSize),
					formatPercent(run.Accuracy),
					run.Duration().Round(time.Millisecond).String(),
				}
			}
			headers := []string{"Run", "Started", "K", "Split", "Seed", "Train", "Test", "Accuracy", "Duration"}
			aligns := rightAligned(len(headers))
			aligns[1] = alignLeft
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	return cmd
}
