package testsupport

import (
	"path/filepath"
	"testing"

	"renamer/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// WithProbeCache enables the duration cache in a per-test directory.
func WithProbeCache(dir string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.ProbeCache.Enabled = true
		cfg.ProbeCache.Path = filepath.Join(dir, "probe.db")
	}
}

// WithExcludeAfter sets the per-directory quota.
func WithExcludeAfter(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Selection.ExcludeAfter = n
	}
}

// NewConfig produces a validated default config that never touches the
// user's home directory: the probe cache is disabled and its path points into
// a per-test temp dir.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.ProbeCache.Enabled = false
	cfg.ProbeCache.Path = filepath.Join(t.TempDir(), "probe.db")
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
