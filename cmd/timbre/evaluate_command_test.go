package main

import (
	"os"
	"testing"

	"timbre/internal/testsupport"
)

func TestEvaluateRecordsRunAndListsIt(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithK(1),
		testsupport.WithSplit(0.6),
		testsupport.WithSeed(7),
		testsupport.WithGenres("blues", "jazz", "rock"),
	)
	testsupport.WriteDataset(t, env.cfg.Dataset.Path, testsupport.Clusters(3, 10, 2, 10)...)

	out, _, err := runCLI(t, []string{"evaluate"}, env.configPath)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	requireContains(t, out, "Accuracy:  100.00%")
	requireContains(t, out, "seed=7")
	requireContains(t, out, "Jazz")
	requireContains(t, out, "Recorded run")

	out, _, err = runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "100.00%")
	requireContains(t, out, "0.6")
}

func TestEvaluateFlagsOverrideConfig(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSeed(3))
	testsupport.WriteDataset(t, env.cfg.Dataset.Path, testsupport.Clusters(2, 10, 2, 10)...)

	out, _, err := runCLI(t, []string{"evaluate", "--k", "3", "--split", "0.5", "--seed", "11", "--no-history"}, env.configPath)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	requireContains(t, out, "k=3 split=0.5 seed=11")
	if _, err := os.Stat(env.cfg.History.Path); !os.IsNotExist(err) {
		t.Fatalf("expected no history database, got %v", err)
	}

	out, _, err = runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestEvaluateEmptyDataset(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteDataset(t, env.cfg.Dataset.Path)

	_, _, err := runCLI(t, []string{"evaluate"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for empty dataset")
	}
	requireContains(t, err.Error(), "empty test set")
}

func TestEvaluateRejectsInvalidSplit(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteDataset(t, env.cfg.Dataset.Path, testsupport.Clusters(2, 5, 2, 10)...)

	if _, _, err := runCLI(t, []string{"evaluate", "--split", "1.5"}, env.configPath); err == nil {
		t.Fatal("expected validation error for split 1.5")
	}
}

func TestPredictReportsDominantGenre(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithK(3),
		testsupport.WithGenres("blues", "jazz"),
	)
	testsupport.WriteDataset(t, env.cfg.Dataset.Path, testsupport.Clusters(2, 8, 2, 10)...)

	queries := env.baseDir + "/queries.dat"
	testsupport.WriteDataset(t, queries,
		testsupport.Record(1, 20, 0.1),
		testsupport.Record(1, 10, 0.2),
		testsupport.Record(1, 19.8, 0),
	)

	out, _, err := runCLI(t, []string{"predict", queries}, env.configPath)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	requireContains(t, out, "Blues")
	requireContains(t, out, "Dominant genre: Jazz (label 2)")
}
