package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorrupted is returned when the backing document exists but cannot be
// decoded. There is no retry or repair path; callers should treat the
// store as unusable.
var ErrCorrupted = errors.New("store: document corrupted")

// Store persists a single collection of records as one JSON document on
// disk. Every load and save is serialized through one mutex, so two
// goroutines can never interleave writes to the file. Compound
// read-modify-write operations must go through Mutate, which holds the
// lock across the whole sequence; calling LoadAll and ReplaceAll
// separately reintroduces a lost-update window.
type Store[T any] struct {
	mu   sync.Mutex
	path string
}

// Open creates a store backed by the document at path. A missing
// document is initialized to an empty collection.
func Open[T any](path string) (*Store[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("store: init %s: %w", path, err)
		}
	} else if err != nil {
		return nil, err
	}
	return &Store[T]{path: path}, nil
}

// LoadAll returns every record in the document, in stored order.
func (s *Store[T]) LoadAll() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// ReplaceAll overwrites the document with the given records.
func (s *Store[T]) ReplaceAll(items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(items)
}

// Add appends one record to the collection.
func (s *Store[T]) Add(item T) error {
	return s.Mutate(func(items []T) ([]T, bool, error) {
		return append(items, item), true, nil
	})
}

// FindFirst returns the first record matching pred, if any.
func (s *Store[T]) FindFirst(pred func(T) bool) (T, bool, error) {
	var zero T
	items, err := s.LoadAll()
	if err != nil {
		return zero, false, err
	}
	for _, it := range items {
		if pred(it) {
			return it, true, nil
		}
	}
	return zero, false, nil
}

// RemoveFirst deletes the first record matching pred. When nothing
// matches the document is left untouched: no rewrite is performed.
func (s *Store[T]) RemoveFirst(pred func(T) bool) error {
	return s.Mutate(func(items []T) ([]T, bool, error) {
		for i, it := range items {
			if pred(it) {
				return append(items[:i], items[i+1:]...), true, nil
			}
		}
		return items, false, nil
	})
}

// Mutate runs fn against the current collection and persists the result,
// all under the store lock. fn returns the new collection and whether
// anything changed; when it reports no change the write is skipped.
// Errors from fn abort the mutation without touching the document.
func (s *Store[T]) Mutate(fn func(items []T) ([]T, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	next, changed, err := fn(items)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.save(next)
}

func (s *Store[T]) load() ([]T, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupted, s.path, err)
	}
	return items, nil
}

func (s *Store[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	return nil
}
