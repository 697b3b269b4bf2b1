package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"timbre/internal/config"
	"timbre/internal/dataset"
	"timbre/internal/knn"
	"timbre/internal/logging"
)

func newPredictCommand(ctx *commandContext) *cobra.Command {
	var (
		k     int
		split float64
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "predict <records.dat>",
		Short: "Classify every record in a stream file and report the dominant genre",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("k") {
				cfg.Classifier.K = k
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			queryPath, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve records path: %w", err)
			}
			queries, err := dataset.Load(cmd.Context(), queryPath)
			if err != nil {
				return err
			}
			for _, issue := range queries.Issues {
				logger.Warn("skipped query record",
					logging.String(logging.FieldDataset, queryPath),
					logging.Int(logging.FieldRecordIndex, issue.Index),
					logging.Error(issue.Err),
				)
			}
			if queries.Len() == 0 {
				return fmt.Errorf("no usable records in %s", queryPath)
			}

			bar := newProgressBar(cmd.ErrOrStderr(), "Predicting")
			defer bar.Wait()
			clf, err := knn.New(cfg.Classifier.K,
				knn.WithWorkers(cfg.Classifier.Workers),
				knn.WithLogger(logger),
				knn.WithProgress(bar.callback()),
			)
			if err != nil {
				return err
			}
			if _, _, err := clf.LoadDataset(cmd.Context(), cfg.Dataset.Path, split, knn.NewSeededSource(seed)); err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}
			dominant, predictions, err := clf.Dominant(cmd.Context(), queries.Records)
			bar.Wait()
			if err != nil {
				return fmt.Errorf("predict: %w", err)
			}

			names, err := genreEnumeration(cfg)
			if err != nil {
				return err
			}
			rows := make([][]string, len(predictions))
			for i, label := range predictions {
				rows[i] = []string{strconv.Itoa(queries.Indices[i]), strconv.Itoa(label), names.Display(label)}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Record", "Label", "Genre"}, rows, []columnAlignment{alignRight, alignRight, alignLeft}))

			fmt.Fprintf(out, "Dominant genre: %s (label %d)\n", names.Display(dominant), dominant)
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "k", "k", 0, "Number of neighbors (overrides classifier.k)")
	cmd.Flags().Float64Var(&split, "split", 1, "Share of the dataset used as training candidates")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed for the training split")
	return cmd
}
