// Package prefs persists per-feature user preferences across page
// reloads. The only preference today is the auto-apply toggle, stored
// independently for the resume summary and the cover letter.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Preference keys, one per auto-apply feature.
const (
	KeyResumeSummary = "resume_summary"
	KeyCoverLetter   = "cover_letter"
)

// Store is a JSON-file-backed preference store. Every toggle defaults
// to off until explicitly enabled.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]bool
}

// Open loads the store at path. A missing file is not an error; it
// yields an empty store that will create the file on first write.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("prefs path is empty")
	}

	s := &Store{path: path, values: make(map[string]bool)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prefs file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse prefs file %s: %w", path, err)
	}
	return s, nil
}

// AutoApply reports whether auto-apply is enabled for the feature key.
func (s *Store) AutoApply(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// SetAutoApply flips the toggle for a feature key and persists the
// store immediately.
func (s *Store) SetAutoApply(key string, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = on
	return s.save()
}

// save writes the store to disk. Caller must hold the mutex.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode prefs: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create prefs directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write prefs file %s: %w", s.path, err)
	}
	return nil
}
