package objectstore

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is an in-memory Store for tests. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	name    string
	objects map[string][]byte

	// PutErr, when set, is returned by Put to simulate storage failures.
	PutErr error
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{name: name, objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, key string, r io.Reader, size int64) (string, error) {
	if s.PutErr != nil {
		return "", s.PutErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) != size {
		return "", fmt.Errorf("size mismatch: declared %d, read %d", size, len(data))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return fmt.Sprintf("s3://%s/%s", s.name, key), nil
}

// Get returns the stored content for key, if present.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Count returns the number of stored objects.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
