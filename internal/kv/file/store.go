// Package file implements kv.Provider as a single JSON object on disk.
// Every call re-reads the file so writes from other processes are visible.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/julianstephens/captainslog/internal/kv"
)

const fileVersion = 1

type document struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

type Store struct {
	path   string
	mu     sync.Mutex
	loaded bool
}

var _ kv.Provider = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		s.loaded = true
		return nil
	}

	if err := s.write(document{Version: fileVersion, Values: map[string]string{}}); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.read(); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'captainslog init' first")
		}
		return err
	}
	s.loaded = true
	return nil
}

func (s *Store) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return document{}, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Values == nil {
		doc.Values = map[string]string{}
	}
	return doc, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *Store) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".captainslog-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *Store) Location() string { return s.path }

func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return kv.ErrNotLoaded
	}
	_, err := s.read()
	return err
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return "", false, kv.ErrNotLoaded
	}
	doc, err := s.read()
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return kv.ErrNotLoaded
	}
	doc, err := s.read()
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	doc.Values[key] = value
	doc.Version = fileVersion
	if err := s.write(doc); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return kv.ErrNotLoaded
	}
	doc, err := s.read()
	if err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	if _, ok := doc.Values[key]; !ok {
		return nil
	}
	delete(doc.Values, key)
	if err := s.write(doc); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	return nil
}
