package preflight

import (
	"context"

	"podkit/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Options selects the checks RunAll performs.
type Options struct {
	// Network enables the search endpoint reachability check.
	Network bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := Filesystem(cfg)
	results = append(results, CheckDatabase(cfg))
	results = append(results, CheckEditor(cfg.Editor))
	if opts.Network {
		results = append(results, CheckSearchEndpoint(ctx, cfg.Search.BaseURL))
	}
	return results
}

// Filesystem checks the data, log and download directories.
func Filesystem(cfg *config.Config) []Result {
	return []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Download directory", cfg.Paths.DownloadDir),
	}
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
