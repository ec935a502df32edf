package secretstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store for tests. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	secrets map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: make(map[string]string)}
}

func (s *MemoryStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.secrets[name]
	return ok, nil
}

func (s *MemoryStore) Create(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.secrets[name]; ok {
		return fmt.Errorf("secret already exists: %s", name)
	}
	s.secrets[name] = value
	return nil
}

func (s *MemoryStore) Update(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.secrets[name]; !ok {
		return fmt.Errorf("secret not found: %s", name)
	}
	s.secrets[name] = value
	return nil
}

// Value returns the stored value for name, if present.
func (s *MemoryStore) Value(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.secrets[name]
	return v, ok
}
