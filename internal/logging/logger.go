package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"podkit/internal/config"
)

// LogFileName is the JSON log written under the configured log directory.
const LogFileName = "podkit.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Output receives console or JSON records. Defaults to stderr.
	Output io.Writer
	// FilePath, when set, additionally appends JSON records to the file.
	FilePath string
}

type handlerFactory func(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler

var formats = map[string]handlerFactory{
	"console": func(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
		return newConsoleHandler(w, lvl, addSource)
	},
	"json": newJSONHandler,
}

// New builds a logger for opts. Caller locations are included at debug level.
func New(opts Options) (*slog.Logger, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Format))
	if name == "" {
		name = "console"
	}
	factory, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	lvl := new(slog.LevelVar)
	lvl.Set(ParseLevel(opts.Level))
	addSource := lvl.Level() <= slog.LevelDebug

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlers := []slog.Handler{factory(out, lvl, addSource)}

	if path := strings.TrimSpace(opts.FilePath); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, newJSONHandler(file, lvl, addSource))
	}
	return slog.New(newFanoutHandler(handlers...)), nil
}

// NewFromConfig writes records to out in the configured format and mirrors
// them as JSON into the log directory.
func NewFromConfig(cfg *config.Config, out io.Writer) (*slog.Logger, error) {
	opts := Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: out}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		opts.FilePath = filepath.Join(dir, LogFileName)
	}
	return New(opts)
}

// ParseLevel maps a config level name to a slog level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}
