package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"timbre/internal/config"
	"timbre/internal/genres"
	"timbre/internal/knn"
	"timbre/internal/logging"
	"timbre/internal/runstore"
)

type evaluateOptions struct {
	k         int
	split     float64
	seed      uint64
	workers   int
	dataset   string
	noHistory bool
}

func newEvaluateCommand(ctx *commandContext) *cobra.Command {
	var opts evaluateOptions

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Split the dataset and report test-partition accuracy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyEvaluateFlags(cmd, cfg, opts); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			seed := cfg.Dataset.Seed
			if seed == 0 {
				seed = rand.Uint64()
			}
			runID := runstore.NewID()
			runCtx := logging.WithRunID(cmd.Context(), runID)

			bar := newProgressBar(cmd.ErrOrStderr(), "Evaluating")
			defer bar.Wait()
			clf, err := knn.New(cfg.Classifier.K,
				knn.WithWorkers(cfg.Classifier.Workers),
				knn.WithLogger(logging.WithContext(runCtx, logger)),
				knn.WithProgress(bar.callback()),
			)
			if err != nil {
				return err
			}

			started := time.Now()
			training, test, err := clf.LoadDataset(runCtx, cfg.Dataset.Path, cfg.Dataset.SplitProbability, knn.NewSeededSource(seed))
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}
			report, err := clf.EvaluateReport(runCtx, nil)
			bar.Wait()
			if err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
			finished := time.Now()

			names, err := genreEnumeration(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:       %s\n", runID)
			fmt.Fprintf(out, "Dataset:   %s\n", cfg.Dataset.Path)
			fmt.Fprintf(out, "Settings:  k=%d split=%s seed=%d\n", cfg.Classifier.K, strconv.FormatFloat(cfg.Dataset.SplitProbability, 'f', -1, 64), seed)
			fmt.Fprintf(out, "Partition: %d training, %d test, %d skipped\n", training, test, len(clf.Issues()))
			fmt.Fprintf(out, "Accuracy:  %s (%d/%d)\n\n", formatPercent(report.Accuracy), report.Correct, report.Total)
			writeConfusion(out, report, names)

			if !cfg.History.Enabled {
				return nil
			}
			store, err := runstore.Open(runCtx, cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()
			if _, err := store.Record(runCtx, runstore.Run{
				ID:               runID,
				StartedAt:        started,
				FinishedAt:       finished,
				DatasetPath:      cfg.Dataset.Path,
				K:                cfg.Classifier.K,
				SplitProbability: cfg.Dataset.SplitProbability,
				Seed:             seed,
				TrainingSize:     training,
				TestSize:         test,
				Skipped:          len(clf.Issues()),
				Correct:          report.Correct,
				Accuracy:         report.Accuracy,
				Confusion:        report.Confusion,
			}); err != nil {
				return fmt.Errorf("record run: %w", err)
			}
			fmt.Fprintf(out, "\nRecorded run %s in %s\n", shortID(runID), cfg.History.Path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.k, "k", "k", 0, "Number of neighbors (overrides classifier.k)")
	cmd.Flags().Float64Var(&opts.split, "split", 0, "Training split probability (overrides dataset.split_probability)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Split seed; 0 picks a random seed (overrides dataset.seed)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Parallel distance workers (overrides classifier.workers)")
	cmd.Flags().StringVarP(&opts.dataset, "dataset", "d", "", "Dataset file (overrides dataset.path)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record this run")
	return cmd
}

func applyEvaluateFlags(cmd *cobra.Command, cfg *config.Config, opts evaluateOptions) error {
	flags := cmd.Flags()
	if flags.Changed("k") {
		cfg.Classifier.K = opts.k
	}
	if flags.Changed("split") {
		cfg.Dataset.SplitProbability = opts.split
	}
	if flags.Changed("seed") {
		cfg.Dataset.Seed = opts.seed
	}
	if flags.Changed("workers") {
		cfg.Classifier.Workers = opts.workers
	}
	if flags.Changed("dataset") {
		path, err := config.ExpandPath(opts.dataset)
		if err != nil {
			return fmt.Errorf("resolve dataset path: %w", err)
		}
		cfg.Dataset.Path = path
	}
	if opts.noHistory {
		cfg.History.Enabled = false
	}
	return cfg.Validate()
}

func writeConfusion(out io.Writer, report *knn.Report, names *genres.Enumeration) {
	labels := report.Labels()
	headers := []string{"Actual \\ Predicted"}
	for _, label := range labels {
		headers = append(headers, names.Display(label))
	}
	headers = append(headers, "Recall")

	rows := make([][]string, 0, len(labels))
	for _, actual := range labels {
		if report.Support(actual) == 0 {
			continue
		}
		row := []string{names.Display(actual)}
		for _, predicted := range labels {
			row = append(row, strconv.Itoa(report.Confusion[actual][predicted]))
		}
		row = append(row, formatPercent(report.Recall(actual)))
		rows = append(rows, row)
	}
	fmt.Fprintln(out, renderTable(headers, rows, rightAligned(len(headers))))
}
