package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DownloadDir string `toml:"download_dir"`
	DataDir     string `toml:"data_dir"`
	LogDir      string `toml:"log_dir"`
}

// Search contains configuration for podcast directory searches.
type Search struct {
	Pattern        string `toml:"pattern"`
	MaxResults     int    `toml:"max_results"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Display contains terminal output settings.
type Display struct {
	MaxLineWidth int `toml:"max_line_width"`
}

// Episodes contains episode naming and feed handling settings.
type Episodes struct {
	FilenamePattern string `toml:"filename_pattern"`
	ListPattern     string `toml:"list_pattern"`
	// NamespaceToken replaces the ":" of prefixed feed element names. Query
	// patterns such as "itunes:author" are rewritten with the same token.
	NamespaceToken string `toml:"namespace_token"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Podcast is a subscribed feed.
type Podcast struct {
	Name            string `toml:"name"`
	URL             string `toml:"url"`
	FilenamePattern string `toml:"filename_pattern,omitempty"`
}

// Config encapsulates all configuration values for podkit.
//
// Configuration sections by subsystem:
//   - Paths: download, data (episode database, lock file) and log directories
//   - Search: directory search pattern, result limit and endpoint
//   - Display: terminal line width
//   - Episodes: file name and listing patterns, feed fetch settings
//   - Logging: log format and level
//   - Podcasts: subscribed feeds
type Config struct {
	Paths    Paths     `toml:"paths"`
	Search   Search    `toml:"search"`
	Display  Display   `toml:"display"`
	Episodes Episodes  `toml:"episodes"`
	Logging  Logging   `toml:"logging"`
	Podcasts []Podcast `toml:"podcasts"`

	// Editor is resolved from $VISUAL or $EDITOR; it is never persisted.
	Editor string `toml:"-"`
}

// ErrPodcastExists is returned by AddPodcast when the name is already subscribed.
var ErrPodcastExists = errors.New("podcast already exists")

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(filepath.Join(configHome(), "podkit", "config.toml"))
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// ResolvePath returns the file Load would read for path and whether it exists.
func ResolvePath(path string) (string, bool, error) {
	return resolveConfigPath(path)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("podkit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories. The download
// directory is created on a best-effort basis so commands that never download
// keep working when external storage is offline.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.DownloadDir) != "" {
		_ = os.MkdirAll(c.Paths.DownloadDir, 0o755)
	}
	return nil
}

// DatabasePath returns the location of the episode database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "library.db")
}

// LockPath returns the location of the sync lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "podkit.lock")
}

// Podcast returns the subscribed podcast with the given name.
func (c *Config) Podcast(name string) (Podcast, bool) {
	for _, p := range c.Podcasts {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Podcast{}, false
}

// AddPodcast subscribes to a feed. It does not persist the change; call Save.
func (c *Config) AddPodcast(name, url string) error {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" {
		return errors.New("podcast name must not be empty")
	}
	if url == "" {
		return errors.New("podcast url must not be empty")
	}
	if _, exists := c.Podcast(name); exists {
		return fmt.Errorf("%w: %s", ErrPodcastExists, name)
	}
	c.Podcasts = append(c.Podcasts, Podcast{Name: name, URL: url})
	return nil
}

// FilenamePattern returns the file name pattern for a podcast, falling back
// to the global episodes pattern.
func (c *Config) FilenamePattern(podcast string) string {
	if p, ok := c.Podcast(podcast); ok && strings.TrimSpace(p.FilenamePattern) != "" {
		return p.FilenamePattern
	}
	return c.Episodes.FilenamePattern
}

// Save writes the configuration to path as TOML.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func configHome() string {
	if base, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && strings.TrimSpace(base) != "" {
		return base
	}
	return "~/.config"
}

func dataHome() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "podkit")
	}
	return defaultDataDir
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
