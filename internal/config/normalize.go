package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSearch()
	c.normalizeEpisodes()
	c.normalizePodcasts()
	c.normalizeLogging()
	c.normalizeEditor()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("PODKIT_DOWNLOAD_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DownloadDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		c.Paths.DownloadDir = defaultDownloadDir
	}
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = dataHome()
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSearch() {
	if strings.TrimSpace(c.Search.Pattern) == "" {
		c.Search.Pattern = defaultSearchPattern
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = defaultSearchMaxResults
	}
	c.Search.BaseURL = strings.TrimSpace(c.Search.BaseURL)
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = defaultSearchBaseURL
	}
	if c.Search.TimeoutSeconds <= 0 {
		c.Search.TimeoutSeconds = defaultSearchTimeout
	}
	if c.Display.MaxLineWidth <= 0 {
		c.Display.MaxLineWidth = defaultMaxLineWidth
	}
}

func (c *Config) normalizeEpisodes() {
	if strings.TrimSpace(c.Episodes.FilenamePattern) == "" {
		c.Episodes.FilenamePattern = defaultFilenamePattern
	}
	if strings.TrimSpace(c.Episodes.ListPattern) == "" {
		c.Episodes.ListPattern = defaultListPattern
	}
	if c.Episodes.NamespaceToken == "" {
		c.Episodes.NamespaceToken = defaultNamespaceToken
	}
	c.Episodes.UserAgent = strings.TrimSpace(c.Episodes.UserAgent)
	if c.Episodes.UserAgent == "" {
		c.Episodes.UserAgent = defaultUserAgent
	}
	if c.Episodes.TimeoutSeconds <= 0 {
		c.Episodes.TimeoutSeconds = defaultFeedTimeoutSeconds
	}
}

func (c *Config) normalizePodcasts() {
	podcasts := c.Podcasts[:0]
	for _, p := range c.Podcasts {
		p.Name = strings.TrimSpace(p.Name)
		p.URL = strings.TrimSpace(p.URL)
		if p.Name == "" && p.URL == "" {
			continue
		}
		podcasts = append(podcasts, p)
	}
	c.Podcasts = podcasts
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeEditor() {
	c.Editor = EditorFromEnv()
}

// EditorFromEnv returns $VISUAL, else $EDITOR, else "".
func EditorFromEnv() string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
