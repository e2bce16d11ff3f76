package geocache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the cache in memory and mirrors every insertion to a JSON
// file. The file is replaced atomically (write to temp, fsync, rename) so a
// crash mid-write never leaves readers with a partial cache.
type FileStore struct {
	path string

	mu      sync.RWMutex
	entries map[string]Entry
}

// OpenFile loads the cache file at path if it exists and returns the store.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read geocode cache: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parse geocode cache %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) Lookup(_ context.Context, address string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[address]
	return e, ok, nil
}

func (s *FileStore) Save(_ context.Context, address string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[address] = e
	return s.persistLocked()
}

// Len reports the number of cached addresses.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".geocache-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
