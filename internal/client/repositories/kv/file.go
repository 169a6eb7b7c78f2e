package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"sync"

	"github.com/dmitrijs2005/hydratemate/internal/filex"
)

// FileStore keeps the whole map in memory and rewrites one JSON file on
// every mutation. Values are stored as JSON strings, so they must be UTF-8;
// everything the session writes is.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFileStore loads path if it exists. An empty file is an empty store;
// a file that is not a JSON object is reported as an error.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, data: make(map[string]string)}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read kv file %s: %w", path, err)
	}
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s.data); err != nil {
		return nil, fmt.Errorf("failed to decode kv file %s: %w", path, err)
	}
	if s.data == nil {
		s.data = make(map[string]string)
	}
	return s, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.data)
	next[key] = string(value)
	return s.commitLocked(next)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	next := maps.Clone(s.data)
	delete(next, key)
	return s.commitLocked(next)
}

func (s *FileStore) List(_ context.Context) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		out[k] = []byte(v)
	}
	return out, nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitLocked(make(map[string]string))
}

// Update runs fn against an in-memory copy and writes the file once.
func (s *FileStore) Update(ctx context.Context, fn func(ctx context.Context, st Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stage := NewMemoryStore()
	for k, v := range s.data {
		stage.data[k] = []byte(v)
	}
	if err := fn(ctx, stage); err != nil {
		return err
	}

	next := make(map[string]string, len(stage.data))
	for k, v := range stage.data {
		next[k] = string(v)
	}
	return s.commitLocked(next)
}

// commitLocked persists next and only then makes it visible.
func (s *FileStore) commitLocked(next map[string]string) error {
	b, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode kv file: %w", err)
	}
	if err := filex.WriteFileAtomic(s.path, b, 0o600); err != nil {
		return fmt.Errorf("failed to write kv file %s: %w", s.path, err)
	}
	s.data = next
	return nil
}
