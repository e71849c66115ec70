package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Store is a JSON key-value file. Values are kept as raw JSON so callers
// decide their own shapes.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// OpenStore reads path into a Store. A missing file yields an empty store; a
// corrupt one is logged and treated as empty so the app still starts.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]json.RawMessage)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings file '%s': %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		log.Printf("Warning: Settings file '%s' is not valid JSON, starting from defaults: %v", path, err)
		s.values = make(map[string]json.RawMessage)
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Get returns the raw value stored under key.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set marshals value under key. The file is not written until Save.
func (s *Store) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting '%s': %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = data
	s.mu.Unlock()
	return nil
}

// Save writes the store to disk, creating the parent directory if needed.
func (s *Store) Save() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.values, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	// Write then rename so a crash never leaves a truncated file behind.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file '%s': %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace settings file '%s': %w", s.path, err)
	}
	return nil
}

// Reload re-reads the file, replacing the in-memory values. A corrupt file
// leaves the current values untouched.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read settings file '%s': %w", s.path, err)
	}
	values := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse settings file '%s': %w", s.path, err)
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}
