package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"timbre/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The data and log directories exist; the dataset file does not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Dataset.Path = filepath.Join(base, "data", "dataset.dat")
	cfgVal.Dataset.Seed = 1
	cfgVal.History.Path = filepath.Join(base, "data", "runs.db")
	cfgVal.Classifier.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithK sets the classifier neighbor count.
func WithK(k int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classifier.K = k
	}
}

// WithSplit sets the training split probability.
func WithSplit(p float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dataset.SplitProbability = p
	}
}

// WithSeed sets the split seed.
func WithSeed(seed uint64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dataset.Seed = seed
	}
}

// WithGenres sets the ordered genre names.
func WithGenres(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Genres.Names = names
	}
}

// WithHistory toggles the run history database.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = enabled
	}
}

// WithGenreSource creates a genre source directory containing the named
// subdirectories and points the config at it.
func WithGenreSource(names ...string) ConfigOption {
	return func(b *configBuilder) {
		root := filepath.Join(b.baseDir, "genres")
		for _, name := range names {
			if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
				b.t.Fatalf("mkdir genre %s: %v", name, err)
			}
		}
		b.cfg.Genres.SourceDir = root
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
