package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/gofrs/flock"

	"timbre/internal/features"
)

const lockRetryDelay = 50 * time.Millisecond

// LockPath returns the advisory lock file guarding the store at path.
func LockPath(path string) string {
	return path + ".lock"
}

// Append validates and appends records to the store at path, creating it if
// needed. The write happens under an exclusive lock and is synced before the
// lock is released.
func Append(ctx context.Context, path string, records ...features.Record) error {
	return write(ctx, path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, records)
}

// Create replaces the store at path with records.
func Create(ctx context.Context, path string, records ...features.Record) error {
	return write(ctx, path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, records)
}

func write(ctx context.Context, path string, flag int, records []features.Record) error {
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	unlock, err := acquire(ctx, path, true)
	if err != nil {
		return err
	}
	defer unlock()

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}

	buf := bufio.NewWriter(f)
	enc := NewEncoder(buf)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			_ = f.Close()
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	if err := buf.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush dataset: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync dataset: %w", err)
	}
	return f.Close()
}

// acquire takes the store's advisory lock. Readers fall back to unlocked
// access when the lock file cannot be created, e.g. on a read-only mount.
func acquire(ctx context.Context, path string, exclusive bool) (func(), error) {
	lock := flock.New(LockPath(path))

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		if !exclusive && errors.Is(err, fs.ErrPermission) {
			return func() {}, nil
		}
		return nil, fmt.Errorf("lock dataset: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("lock dataset: %s is busy", path)
	}
	return func() { _ = lock.Unlock() }, nil
}
