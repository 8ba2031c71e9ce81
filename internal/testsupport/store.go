package testsupport

import (
	"context"
	"testing"

	"podkit/internal/config"
	"podkit/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustUpsertPodcast stores a podcast or fails the test.
func MustUpsertPodcast(t testing.TB, store *library.Store, name, url string) int64 {
	t.Helper()

	id, err := store.UpsertPodcast(context.Background(), name, url)
	if err != nil {
		t.Fatalf("store.UpsertPodcast: %v", err)
	}
	return id
}
