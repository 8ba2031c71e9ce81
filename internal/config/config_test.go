package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"podkit/internal/config"
	"podkit/internal/pattern"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("PODKIT_DOWNLOAD_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "podkit", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, "podkit"); cfg.Paths.DownloadDir != want {
		t.Fatalf("unexpected download dir: got %q want %q", cfg.Paths.DownloadDir, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "podkit"); cfg.Paths.DataDir != want {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "podkit", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, want)
	}
	if cfg.Search.Pattern != config.Default().Search.Pattern {
		t.Fatalf("unexpected search pattern: %q", cfg.Search.Pattern)
	}
	if cfg.Episodes.NamespaceToken != "__placeholder__" {
		t.Fatalf("unexpected namespace token: %q", cfg.Episodes.NamespaceToken)
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.DataDir, "library.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.DownloadDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadHonoursXDGAndEnv(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("PODKIT_DOWNLOAD_DIR", filepath.Join(base, "downloads"))
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "vim")

	cfg, _, _, err := config.Load(filepath.Join(base, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != filepath.Join(base, "data", "podkit") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.DownloadDir != filepath.Join(base, "downloads") {
		t.Fatalf("unexpected download dir: %q", cfg.Paths.DownloadDir)
	}
	if cfg.Editor != "vim" {
		t.Fatalf("expected editor from env, got %q", cfg.Editor)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "podkit.toml")

	type payload struct {
		Search struct {
			Pattern    string `toml:"pattern"`
			MaxResults int    `toml:"max_results"`
		} `toml:"search"`
		Episodes struct {
			FilenamePattern string `toml:"filename_pattern"`
		} `toml:"episodes"`
		Podcasts []config.Podcast `toml:"podcasts"`
	}
	custom := payload{}
	custom.Search.Pattern = "{collectionName} ({trackCount})"
	custom.Search.MaxResults = 25
	custom.Episodes.FilenamePattern = "{itunes:episode} {title}"
	custom.Podcasts = []config.Podcast{
		{Name: " Example Show ", URL: "https://example.com/feed.xml"},
		{Name: "Other", URL: "https://example.com/other.xml", FilenamePattern: "{guid}"},
	}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Search.Pattern != "{collectionName} ({trackCount})" {
		t.Fatalf("unexpected search pattern: %q", cfg.Search.Pattern)
	}
	if cfg.Search.MaxResults != 25 {
		t.Fatalf("expected max results 25, got %d", cfg.Search.MaxResults)
	}
	if len(cfg.Podcasts) != 2 || cfg.Podcasts[0].Name != "Example Show" {
		t.Fatalf("unexpected podcasts: %#v", cfg.Podcasts)
	}
	if got := cfg.FilenamePattern("example show"); got != "{itunes:episode} {title}" {
		t.Fatalf("expected global filename pattern, got %q", got)
	}
	if got := cfg.FilenamePattern("Other"); got != "{guid}" {
		t.Fatalf("expected podcast filename pattern, got %q", got)
	}
}

func TestLoadRejectsMalformedPattern(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "podkit.toml")
	if err := os.WriteFile(configPath, []byte("[search]\npattern = \"{a{b}}\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected error for malformed search pattern")
	}
	if !errors.Is(err, pattern.ErrNestedOpen) {
		t.Fatalf("expected nested brace error, got %v", err)
	}
	if !strings.Contains(err.Error(), "search.pattern") {
		t.Fatalf("expected error to name the key, got %v", err)
	}
}

func TestAddPodcastAndSaveRoundTrip(t *testing.T) {
	t.Setenv("PODKIT_DOWNLOAD_DIR", "")
	path := filepath.Join(t.TempDir(), "nested", "podkit.toml")
	cfg := config.Default()
	if err := cfg.AddPodcast("Hard Fork", "https://example.com/hardfork.xml"); err != nil {
		t.Fatalf("AddPodcast failed: %v", err)
	}
	if err := cfg.AddPodcast("hard fork", "https://example.com/dupe.xml"); !errors.Is(err, config.ErrPodcastExists) {
		t.Fatalf("expected ErrPodcastExists, got %v", err)
	}
	if err := cfg.AddPodcast("", "https://example.com"); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected saved config to exist")
	}
	p, ok := loaded.Podcast("HARD FORK")
	if !ok || p.URL != "https://example.com/hardfork.xml" {
		t.Fatalf("unexpected podcast after reload: %#v (found=%v)", p, ok)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be removed, stat err=%v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Search.Pattern != config.Default().Search.Pattern {
		t.Fatalf("sample search pattern drifted from defaults: %q", cfg.Search.Pattern)
	}
	if cfg.Episodes.NamespaceToken != config.Default().Episodes.NamespaceToken {
		t.Fatalf("sample namespace token drifted from defaults: %q", cfg.Episodes.NamespaceToken)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config does not validate: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unbalanced list pattern", func(c *config.Config) { c.Episodes.ListPattern = "{title}}" }},
		{"too many results", func(c *config.Config) { c.Search.MaxResults = 1000 }},
		{"narrow display", func(c *config.Config) { c.Display.MaxLineWidth = 5 }},
		{"zero timeout", func(c *config.Config) { c.Search.TimeoutSeconds = 0 }},
		{"colon in token", func(c *config.Config) { c.Episodes.NamespaceToken = "a:b" }},
		{"dot in token", func(c *config.Config) { c.Episodes.NamespaceToken = "a.b" }},
		{"podcast without url", func(c *config.Config) {
			c.Podcasts = []config.Podcast{{Name: "x"}}
		}},
		{"duplicate podcast", func(c *config.Config) {
			c.Podcasts = []config.Podcast{{Name: "x", URL: "u"}, {Name: "X", URL: "v"}}
		}},
		{"bad podcast pattern", func(c *config.Config) {
			c.Podcasts = []config.Podcast{{Name: "x", URL: "u", FilenamePattern: "}"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
