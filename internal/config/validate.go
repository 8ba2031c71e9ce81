package config

import (
	"errors"
	"fmt"
	"strings"

	"podkit/internal/pattern"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePatterns(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateEpisodes(); err != nil {
		return err
	}
	if err := c.validatePodcasts(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePatterns() error {
	patterns := []struct {
		key   string
		value string
	}{
		{"search.pattern", c.Search.Pattern},
		{"episodes.filename_pattern", c.Episodes.FilenamePattern},
		{"episodes.list_pattern", c.Episodes.ListPattern},
	}
	for _, p := range patterns {
		if err := pattern.Validate(p.value); err != nil {
			return fmt.Errorf("%s: %w", p.key, err)
		}
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Search.MaxResults > maxSearchResults {
		return fmt.Errorf("search.max_results must be at most %d", maxSearchResults)
	}
	if c.Display.MaxLineWidth < minLineWidth {
		return fmt.Errorf("display.max_line_width must be at least %d", minLineWidth)
	}
	return ensurePositiveMap(map[string]int{
		"search.max_results":       c.Search.MaxResults,
		"search.timeout_seconds":   c.Search.TimeoutSeconds,
		"episodes.timeout_seconds": c.Episodes.TimeoutSeconds,
	})
}

func (c *Config) validateEpisodes() error {
	token := c.Episodes.NamespaceToken
	if strings.ContainsAny(token, ":.{}<>/ \t\r\n") {
		return errors.New("episodes.namespace_token must not contain ':', '.', braces, angle brackets, slashes or whitespace")
	}
	return nil
}

func (c *Config) validatePodcasts() error {
	seen := make(map[string]struct{}, len(c.Podcasts))
	for i, p := range c.Podcasts {
		if p.Name == "" {
			return fmt.Errorf("podcasts[%d].name must be set", i)
		}
		if p.URL == "" {
			return fmt.Errorf("podcasts[%d].url must be set for %q", i, p.Name)
		}
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("podcasts[%d]: duplicate podcast name %q", i, p.Name)
		}
		seen[key] = struct{}{}
		if p.FilenamePattern != "" {
			if err := pattern.Validate(p.FilenamePattern); err != nil {
				return fmt.Errorf("podcasts[%d].filename_pattern: %w", i, err)
			}
		}
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
