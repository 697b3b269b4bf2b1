package main

import (
	"io"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progressBar renders batch progress on a terminal. A nil *progressBar is a
// valid no-op, used when output is not a TTY.
type progressBar struct {
	label    string
	progress *mpb.Progress

	mu     sync.Mutex
	bar    *mpb.Bar
	waited bool
}

func newProgressBar(w io.Writer, label string) *progressBar {
	if !shouldColorize(w) {
		return nil
	}
	return &progressBar{
		label:    label,
		progress: mpb.New(mpb.WithOutput(w), mpb.WithWidth(64)),
	}
}

// Update matches knn.ProgressFunc.
func (p *progressBar) Update(done, total int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waited {
		return
	}
	if p.bar == nil {
		p.bar = p.progress.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name(p.label+": "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(
				decor.Percentage(),
				decor.AverageETA(decor.ET_STYLE_GO),
			),
		)
	}
	p.bar.SetCurrent(int64(done))
}

// Wait flushes the bar. An unfinished bar is aborted so Wait never blocks.
// Only the first call waits; later calls and updates are no-ops.
func (p *progressBar) Wait() {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.waited {
		p.mu.Unlock()
		return
	}
	p.waited = true
	if p.bar != nil && !p.bar.Completed() {
		p.bar.Abort(false)
	}
	p.mu.Unlock()
	p.progress.Wait()
}

func (p *progressBar) callback() func(done, total int) {
	if p == nil {
		return nil
	}
	return p.Update
}
