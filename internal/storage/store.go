// Package storage owns the on-disk audio artifacts backing cached pairs
// and live sessions.
package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const cacheSubdir = "cache"

// Store manages a temp directory of audio artifacts. Session audio lives
// in the base directory, pre-generated cache audio in a subdirectory so it
// can be cleared wholesale on startup.
type Store struct {
	baseDir  string
	cacheDir string
}

// New creates the artifact directories. An empty baseDir falls back to the
// system temp directory.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "voxarena_audio")
	}
	cacheDir := filepath.Join(baseDir, cacheSubdir)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dirs: %w", err)
	}
	return &Store{baseDir: baseDir, cacheDir: cacheDir}, nil
}

// SessionDir is where on-demand session audio is written.
func (s *Store) SessionDir() string { return s.baseDir }

// CacheDir is where pre-generated pair audio is written.
func (s *Store) CacheDir() string { return s.cacheDir }

// Save writes audio bytes to a fresh uniquely named file in dir and
// returns its path.
func (s *Store) Save(dir string, data []byte) (string, error) {
	path := filepath.Join(dir, uuid.NewString()+".wav")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return path, nil
}

// Remove deletes an artifact. A missing file is not an error; the expiry
// sweep and lazy invalidation can race over the same path.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether the artifact is still on disk.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ClearCache removes leftover cache audio from a previous run. The cache
// map is process-local, so orphaned files are unreachable after a restart.
func (s *Store) ClearCache() {
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		log.Printf("storage: read cache dir: %v", err)
		return
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(s.cacheDir, e.Name())); err != nil {
			log.Printf("storage: remove stale cache file %s: %v", e.Name(), err)
		}
	}
}
