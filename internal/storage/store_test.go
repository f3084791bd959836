package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreSaveAndRemove(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path, err := store.Save(store.SessionDir(), []byte("RIFF fake audio"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !store.Exists(path) {
		t.Fatal("saved artifact should exist")
	}
	if filepath.Ext(path) != ".wav" {
		t.Errorf("got extension %q, want .wav", filepath.Ext(path))
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.Exists(path) {
		t.Fatal("removed artifact should not exist")
	}

	// Removing twice is not an error.
	if err := store.Remove(path); err != nil {
		t.Errorf("second Remove: %v", err)
	}
	if err := store.Remove(""); err != nil {
		t.Errorf("Remove of empty path: %v", err)
	}
}

func TestStoreUniquePaths(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a, _ := store.Save(store.CacheDir(), []byte("one"))
	b, _ := store.Save(store.CacheDir(), []byte("two"))
	if a == b {
		t.Fatalf("two saves produced the same path %q", a)
	}
}

func TestStoreClearCache(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cached, _ := store.Save(store.CacheDir(), []byte("stale"))
	session, _ := store.Save(store.SessionDir(), []byte("live"))

	store.ClearCache()

	if store.Exists(cached) {
		t.Error("cache artifact should be cleared")
	}
	if !store.Exists(session) {
		t.Error("session artifact should survive a cache clear")
	}
}

func TestStoreDefaultDir(t *testing.T) {
	store, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if store.SessionDir() == "" {
		t.Fatal("expected a default base dir")
	}
	if _, err := os.Stat(store.CacheDir()); err != nil {
		t.Fatalf("cache dir should exist: %v", err)
	}
}
