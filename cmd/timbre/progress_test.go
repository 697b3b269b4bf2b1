package main

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/vbauerster/mpb/v8"
)

func newTestProgressBar(w io.Writer) *progressBar {
	return &progressBar{label: "Testing", progress: mpb.New(mpb.WithOutput(w), mpb.WithWidth(32))}
}

func waitWithin(t *testing.T, d time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("did not return within %s", d)
	}
}

func TestProgressBarWaitWithoutUpdates(t *testing.T) {
	bar := newTestProgressBar(io.Discard)
	waitWithin(t, 5*time.Second, bar.Wait)
}

func TestProgressBarWaitAbortsUnfinishedBarAndIsIdempotent(t *testing.T) {
	bar := newTestProgressBar(io.Discard)
	bar.Update(1, 10)
	waitWithin(t, 5*time.Second, func() {
		bar.Wait()
		bar.Wait()
	})
	// Updates after Wait must not touch the shut down container.
	bar.Update(2, 10)
}

func TestNilProgressBarIsNoop(t *testing.T) {
	bar := newProgressBar(&bytes.Buffer{}, "Evaluating")
	if bar != nil {
		t.Fatal("expected nil bar for a non-terminal writer")
	}
	if bar.callback() != nil {
		t.Fatal("expected nil callback for a nil bar")
	}
	bar.Update(1, 2)
	bar.Wait()
}
