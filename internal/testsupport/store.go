package testsupport

import (
	"context"
	"testing"

	"sceneforge/internal/config"
	"sceneforge/internal/scene"
)

// MustOpenStore opens a scene store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *scene.Store {
	t.Helper()

	store, err := scene.Open(cfg)
	if err != nil {
		t.Fatalf("scene.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewScene creates a scene record for tests using the provided store.
func NewScene(t testing.TB, store *scene.Store, sc *scene.Scene) *scene.Scene {
	t.Helper()

	created, err := store.Create(context.Background(), sc)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return created
}
