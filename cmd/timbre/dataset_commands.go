package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"timbre/internal/config"
	"timbre/internal/dataset"
	"timbre/internal/features"
	"timbre/internal/genres"
	"timbre/internal/logging"
)

func newDatasetCommand(ctx *commandContext) *cobra.Command {
	datasetCmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect or build the feature-record store",
	}
	datasetCmd.AddCommand(newDatasetInspectCommand(ctx))
	datasetCmd.AddCommand(newDatasetBuildCommand(ctx))
	return datasetCmd
}

func newDatasetInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [path]",
		Short: "Summarize a dataset file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.Dataset.Path
			if len(args) == 1 {
				if path, err = config.ExpandPath(args[0]); err != nil {
					return fmt.Errorf("resolve dataset path: %w", err)
				}
			}

			ds, err := dataset.Load(cmd.Context(), path)
			if err != nil {
				return err
			}
			names, err := genreEnumeration(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:       %s\n", path)
			fmt.Fprintf(out, "Records:    %d\n", ds.Len())
			fmt.Fprintf(out, "Dimension:  %d\n", ds.Dim)
			fmt.Fprintf(out, "Aux length: %d\n", ds.AuxLen)
			fmt.Fprintf(out, "Skipped:    %d\n", len(ds.Issues))
			if ds.Len() == 0 {
				return nil
			}

			counts := ds.LabelCounts()
			rows := make([][]string, 0, len(counts))
			for _, label := range ds.Labels() {
				share := float64(counts[label]) / float64(ds.Len())
				rows = append(rows, []string{strconv.Itoa(label), names.Display(label), strconv.Itoa(counts[label]), formatPercent(share)})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable([]string{"Label", "Genre", "Records", "Share"}, rows, []columnAlignment{alignRight, alignLeft, alignRight, alignRight}))

			if len(ds.Issues) > 0 {
				issueRows := make([][]string, len(ds.Issues))
				for i, issue := range ds.Issues {
					issueRows[i] = []string{strconv.Itoa(issue.Index), issue.Err.Error()}
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable([]string{"Record", "Problem"}, issueRows, []columnAlignment{alignRight, alignLeft}))
			}
			return nil
		},
	}
}

func newDatasetBuildCommand(ctx *commandContext) *cobra.Command {
	var (
		output    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "build <root>",
		Short: "Summarize <root>/<genre>/*.csv frame matrices into dataset records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve root: %w", err)
			}
			target := cfg.Dataset.Path
			if output != "" {
				if target, err = config.ExpandPath(output); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
			}

			var enum *genres.Enumeration
			if len(cfg.Genres.Names) > 0 {
				enum, err = genres.FromNames(cfg.Genres.Names)
			} else {
				enum, err = genres.FromDirectory(root, cfg.Genres.MaxGenres)
			}
			if err != nil {
				return err
			}
			if enum.Len() == 0 {
				return fmt.Errorf("no genres found under %s", root)
			}

			jobs, err := collectFrameFiles(root, enum)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				return fmt.Errorf("no csv frame files found under %s", root)
			}

			bar := newProgressBar(cmd.ErrOrStderr(), "Summarizing")
			defer bar.Wait()
			records, failed := summarizeFrameFiles(cmd.Context(), logging.NewComponentLogger(logger, "dataset"), jobs, cfg.Classifier.Workers, bar.callback())
			bar.Wait()
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("all %d frame files failed to summarize", failed)
			}

			write := dataset.Append
			if overwrite {
				write = dataset.Create
			}
			if err := write(cmd.Context(), target, records...); err != nil {
				return fmt.Errorf("write dataset: %w", err)
			}

			out := cmd.OutOrStdout()
			verb := "Appended"
			if overwrite {
				verb = "Wrote"
			}
			fmt.Fprintf(out, "%s %d records to %s\n", verb, len(records), target)
			fmt.Fprintf(out, "Genres: %s\n", strings.Join(enum.Names(), ", "))
			if failed > 0 {
				fmt.Fprintf(out, "%d files failed (see log)\n", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Dataset file to write (defaults to dataset.path)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the dataset instead of appending")
	return cmd
}

type frameFile struct {
	path  string
	label int
}

// collectFrameFiles lists <root>/<genre>/*.csv for every genre in enum,
// in label order then file name order.
func collectFrameFiles(root string, enum *genres.Enumeration) ([]frameFile, error) {
	var jobs []frameFile
	for label := 1; label <= enum.Len(); label++ {
		name, _ := enum.Name(label)
		dir := filepath.Join(root, name)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read genre directory %s: %w", dir, err)
		}
		var files []string
		for _, entry := range entries {
			if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
				files = append(files, entry.Name())
			}
		}
		slices.Sort(files)
		for _, file := range files {
			jobs = append(jobs, frameFile{path: filepath.Join(dir, file), label: label})
		}
	}
	return jobs, nil
}

// summarizeFrameFiles summarizes jobs in parallel. A failing file is logged
// and skipped. Records keep job order.
func summarizeFrameFiles(ctx context.Context, logger *slog.Logger, jobs []frameFile, workers int, progress func(done, total int)) ([]features.Record, int) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	results := make([]*features.Record, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	done := make(chan struct{}, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			defer func() { done <- struct{}{} }()
			if gctx.Err() != nil {
				return nil
			}
			rec, err := summarizeFrameFile(job)
			if err != nil {
				logger.Warn("skipped frame file",
					logging.String("path", job.path),
					logging.Int(logging.FieldLabel, job.label),
					logging.Error(err),
				)
				return nil
			}
			results[i] = &rec
			return nil
		})
	}

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for n := 1; n <= len(jobs); n++ {
			<-done
			if progress != nil {
				progress(n, len(jobs))
			}
		}
	}()
	_ = g.Wait()
	<-finished

	records := make([]features.Record, 0, len(jobs))
	failed := 0
	for _, rec := range results {
		if rec == nil {
			failed++
			continue
		}
		records = append(records, *rec)
	}
	logger.Info("frame files summarized",
		logging.Int("records", len(records)),
		logging.Int("failed", failed),
	)
	return records, failed
}

func summarizeFrameFile(job frameFile) (features.Record, error) {
	f, err := os.Open(job.path)
	if err != nil {
		return features.Record{}, err
	}
	defer f.Close()
	frames, err := features.ReadFramesCSV(f)
	if err != nil {
		return features.Record{}, err
	}
	return features.Summarize(frames, job.label)
}
