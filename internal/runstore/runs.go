package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("run not found")

// Run is one recorded evaluation.
type Run struct {
	ID               string
	StartedAt        time.Time
	FinishedAt       time.Time
	DatasetPath      string
	K                int
	SplitProbability float64
	Seed             uint64
	TrainingSize     int
	TestSize         int
	Skipped          int
	Correct          int
	Accuracy         float64
	// Confusion counts predictions per actual label: Confusion[actual][predicted].
	Confusion map[int]map[int]int
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewID returns a fresh run identifier.
func NewID() string {
	return uuid.NewString()
}

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = `id, started_at, finished_at, dataset_path, k, split_probability, seed,
	training_size, test_size, skipped, correct, accuracy, confusion`

// Record inserts run, assigning an ID when it has none, and returns the
// stored copy.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = NewID()
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		return Run{}, fmt.Errorf("invalid run id %q: %w", run.ID, err)
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}

	var confusion sql.NullString
	if len(run.Confusion) > 0 {
		data, err := json.Marshal(run.Confusion)
		if err != nil {
			return Run{}, fmt.Errorf("encode confusion: %w", err)
		}
		confusion = sql.NullString{String: string(data), Valid: true}
	}

	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.StartedAt.UTC().Format(timeLayout),
			run.FinishedAt.UTC().Format(timeLayout),
			run.DatasetPath,
			run.K,
			run.SplitProbability,
			int64(run.Seed),
			run.TrainingSize,
			run.TestSize,
			run.Skipped,
			run.Correct,
			run.Accuracy,
			confusion,
		)
		return err
	})
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Get returns the run with id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	var run Run
	err := retryOnBusy(ctx, func() error {
		var err error
		run, err = scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// List returns the most recent runs first. A limit of 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var runs []Run
	err := retryOnBusy(ctx, func() error {
		runs = nil
		return s.listInto(ctx, query, args, &runs)
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *Store) listInto(ctx context.Context, query string, args []any, runs *[]Run) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return err
		}
		*runs = append(*runs, run)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate runs: %w", err)
	}
	return nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw string
		seed        int64
		confusion   sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.DatasetPath,
		&run.K,
		&run.SplitProbability,
		&seed,
		&run.TrainingSize,
		&run.TestSize,
		&run.Skipped,
		&run.Correct,
		&run.Accuracy,
		&confusion,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	var err error
	if run.StartedAt, err = time.Parse(timeLayout, startedRaw); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finishedRaw); err != nil {
		return Run{}, fmt.Errorf("parse finished_at: %w", err)
	}
	run.Seed = uint64(seed)
	if confusion.Valid && confusion.String != "" {
		if err := json.Unmarshal([]byte(confusion.String), &run.Confusion); err != nil {
			return Run{}, fmt.Errorf("decode confusion: %w", err)
		}
	}
	return run, nil
}
