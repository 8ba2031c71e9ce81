package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"podkit/internal/config"
)

// ErrLocked is returned by Lock when another process holds the sync lock.
var ErrLocked = errors.New("another podkit process is syncing")

// Lock acquires the exclusive sync lock. Release it with Unlock.
func Lock(cfg *config.Config) (*flock.Flock, error) {
	path := cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, path)
	}
	return lock, nil
}
