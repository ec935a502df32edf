package trigger

import (
	"context"
	"sync"
)

// MemoryService is an in-memory Service for tests. Safe for concurrent use.
type MemoryService struct {
	mu    sync.Mutex
	rules map[string]memoryRule

	// RegisterErr and RemoveErr, when set, are returned by the respective
	// calls to simulate collaborator failures.
	RegisterErr error
	RemoveErr   error
}

type memoryRule struct {
	CronExpr string
	Payload  Payload
}

var _ Service = (*MemoryService)(nil)

func NewMemoryService() *MemoryService {
	return &MemoryService{rules: make(map[string]memoryRule)}
}

func (s *MemoryService) Register(_ context.Context, name, cronExpr string, p Payload) error {
	if s.RegisterErr != nil {
		return s.RegisterErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[name] = memoryRule{CronExpr: cronExpr, Payload: p}
	return nil
}

func (s *MemoryService) Remove(_ context.Context, name string) error {
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Absent rules are tolerated, mirroring the real service.
	delete(s.rules, name)
	return nil
}

// Registered returns the cron expression and payload for name, if present.
func (s *MemoryService) Registered(name string) (string, Payload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rules[name]
	return r.CronExpr, r.Payload, ok
}

// Count returns the number of registered rules.
func (s *MemoryService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rules)
}
