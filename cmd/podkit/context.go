package main

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"podkit/internal/config"
	"podkit/internal/library"
	"podkit/internal/logging"
	"podkit/internal/syncer"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// saveConfig persists the loaded configuration back to the file it came from.
func (c *commandContext) saveConfig() error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if err := cfg.Save(c.configPath); err != nil {
		return err
	}
	return nil
}

// logger writes console records to the command's stderr and JSON records to
// the log file.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg, cmd.ErrOrStderr())
}

func (c *commandContext) withStore(fn func(*library.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := library.Open(cfg)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// withSyncer runs fn with a syncer over the episode library. When exclusive
// is set the sync lock is held until fn returns.
func (c *commandContext) withSyncer(cmd *cobra.Command, exclusive bool, fn func(*syncer.Syncer) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if exclusive {
		lock, err := library.Lock(cfg)
		if err != nil {
			if errors.Is(err, library.ErrLocked) {
				return fmt.Errorf("%w; wait for it to finish and retry", err)
			}
			return err
		}
		defer lock.Unlock()
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return err
	}
	return c.withStore(func(store *library.Store) error {
		return fn(syncer.New(cfg, store, nil, logger))
	})
}

func compileFilter(expr string) (*regexp.Regexp, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	return re, nil
}

// exactNames matches any of the given podcast names and nothing else.
func exactNames(names []string) *regexp.Regexp {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		quoted = append(quoted, regexp.QuoteMeta(name))
	}
	return regexp.MustCompile("^(?:" + strings.Join(quoted, "|") + ")$")
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
