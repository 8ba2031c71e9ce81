package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"podkit/internal/config"
	"podkit/internal/deps"
	"podkit/internal/library"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDatabase opens the library database, creating it when missing.
func CheckDatabase(cfg *config.Config) Result {
	const name = "Library database"
	store, err := library.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.DatabasePath(), err)}
	}
	defer store.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (schema ok)", store.Path())}
}

// CheckEditor resolves the editor used by "config edit". A missing editor
// only disables that command, so the result is optional.
func CheckEditor(editor string) Result {
	status := deps.Resolve(deps.Requirement{Name: "Editor", Command: editor, Optional: true})
	switch {
	case errors.Is(status.Err, deps.ErrNotConfigured):
		return Result{Name: status.Name, Optional: true, Detail: "set $VISUAL or $EDITOR"}
	case status.Err != nil:
		return Result{Name: status.Name, Optional: true, Detail: status.Err.Error()}
	}
	return Result{Name: status.Name, Passed: true, Optional: true, Detail: status.Path}
}

// CheckSearchEndpoint verifies the podcast directory answers a minimal query.
func CheckSearchEndpoint(ctx context.Context, baseURL string) Result {
	const name = "Podcast directory"

	endpoint, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || endpoint.Host == "" {
		return Result{Name: name, Detail: fmt.Sprintf("invalid url %q", baseURL)}
	}
	q := endpoint.Query()
	q.Set("term", "podcast")
	q.Set("limit", "1")
	endpoint.RawQuery = q.Encode()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("request failed (%v)", err)}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out"
	}
	return err.Error()
}
