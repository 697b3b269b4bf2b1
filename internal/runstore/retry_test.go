package runstore

import (
	"context"
	"errors"
	"testing"
)

func TestRetryOnBusyRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := retryOnBusy(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retryOnBusy: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryOnBusyStopsOnOtherErrors(t *testing.T) {
	boom := errors.New("no such table: runs")
	calls := 0
	err := retryOnBusy(context.Background(), func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("err = %v after %d calls, want %v after 1", err, calls, boom)
	}
}

func TestRetryOnBusyGivesUp(t *testing.T) {
	calls := 0
	err := retryOnBusy(context.Background(), func() error {
		calls++
		return errors.New("SQLITE_BUSY")
	})
	if err == nil || calls != busyRetryAttempts {
		t.Fatalf("err = %v after %d calls, want busy error after %d", err, calls, busyRetryAttempts)
	}
}

func TestRetryOnBusyHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retryOnBusy(ctx, func() error { return errors.New("SQLITE_BUSY") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestGetAndListRunThroughRetry(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, t.TempDir()+"/runs.db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	run, err := store.Record(ctx, Run{DatasetPath: "/data/dataset.dat", K: 5, SplitProbability: 0.68, Seed: 1})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := store.Get(ctx, run.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := store.Get(ctx, NewID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}
	runs, err := store.List(ctx, 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("List = %v, %v", runs, err)
	}
}
