package testsupport

import (
	"path/filepath"
	"testing"

	"cohortgen/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Batches are small and fast, the seed is fixed, and only the CSV sink is
// enabled so tests stay deterministic unless they opt into more.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Output.Directory = filepath.Join(base, "datasets")
	cfg.Output.Formats = []string{"csv"}
	cfg.Logging.Directory = filepath.Join(base, "logs")
	cfg.Batch.Size = 5
	cfg.Batch.IntervalSeconds = 0.001
	cfg.Batch.MaxBatches = 2
	cfg.Generator.Seed = 42

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithFormats overrides the enabled sink formats.
func WithFormats(formats ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Output.Formats = formats
	}
}

// WithSeed overrides the generator seed.
func WithSeed(seed int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Generator.Seed = seed
	}
}

// WithBatch overrides the batch size and limit.
func WithBatch(size, maxBatches int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Batch.Size = size
		cfg.Batch.MaxBatches = maxBatches
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Output.Directory)
}
