package filekv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/phrazzld/flashdeck/internal/store"
)

// Verify interface compliance at compile time
var _ store.KVStore = (*KVStore)(nil)

var validKey = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// KVStore stores each key in <dir>/<key>.json.
type KVStore struct {
	dir string

	mu     sync.RWMutex
	closed bool
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*KVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &KVStore{dir: dir}, nil
}

func (s *KVStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get implements store.KVStore.Get.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}

	path, err := s.path(key)
	if err != nil {
		return nil, store.NewStoreError(key, "get", "bad key", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrKeyNotFound
	}
	if err != nil {
		return nil, store.NewStoreError(key, "get", "read failed", err)
	}
	return data, nil
}

// Set implements store.KVStore.Set.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Exclusive: two writers for the same key must not interleave renames.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}

	path, err := s.path(key)
	if err != nil {
		return store.NewStoreError(key, "set", "bad key", err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return store.NewStoreError(key, "set", "create temp file", errors.Join(store.ErrWriteFailed, err))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return store.NewStoreError(key, "set", "write temp file", errors.Join(store.ErrWriteFailed, err))
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return store.NewStoreError(key, "set", "sync temp file", errors.Join(store.ErrWriteFailed, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return store.NewStoreError(key, "set", "close temp file", errors.Join(store.ErrWriteFailed, err))
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return store.NewStoreError(key, "set", "rename", errors.Join(store.ErrWriteFailed, err))
	}
	return nil
}

// Close implements store.KVStore.Close.
func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
