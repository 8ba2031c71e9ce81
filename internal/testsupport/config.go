package testsupport

import (
	"path/filepath"
	"testing"

	"podkit/internal/config"
)

// ConfigOption adjusts a test configuration before it is validated.
type ConfigOption func(testing.TB, *config.Config)

// NewConfig returns the default configuration rooted in a fresh temp
// directory, with opts applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths = config.Paths{
		DownloadDir: filepath.Join(root, "downloads"),
		DataDir:     filepath.Join(root, "data"),
		LogDir:      filepath.Join(root, "logs"),
	}
	cfg.Episodes.UserAgent = "podkit/test"
	for _, opt := range opts {
		opt(t, &cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithPodcast subscribes the test config to a feed.
func WithPodcast(name, url string) ConfigOption {
	return func(t testing.TB, cfg *config.Config) {
		if err := cfg.AddPodcast(name, url); err != nil {
			t.Fatalf("add podcast %s: %v", name, err)
		}
	}
}

// WithFilenamePattern overrides the global episode file name pattern.
func WithFilenamePattern(pattern string) ConfigOption {
	return func(_ testing.TB, cfg *config.Config) {
		cfg.Episodes.FilenamePattern = pattern
	}
}

// BaseDir returns the temp directory the config's paths live under.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
