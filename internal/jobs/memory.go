package jobs

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]Record // userID -> records, unordered
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]Record)}
}

func (s *MemoryStore) Put(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.records[r.UserID] {
		if existing.AddedAt == r.AddedAt {
			s.records[r.UserID][i] = r
			return nil
		}
	}
	s.records[r.UserID] = append(s.records[r.UserID], r)
	return nil
}

func (s *MemoryStore) Latest(_ context.Context, userID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *Record
	for i := range s.records[userID] {
		r := s.records[userID][i]
		if latest == nil || r.AddedAt > latest.AddedAt {
			latest = &r
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (s *MemoryStore) FindByJobID(_ context.Context, userID, jobID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records[userID] {
		if r.JobID == jobID {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, userID string, addedAt int64, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records[userID] {
		if r.AddedAt == addedAt {
			s.records[userID][i].Status = status
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string, addedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[userID]
	for i, r := range recs {
		if r.AddedAt == addedAt {
			s.records[userID] = append(recs[:i], recs[i+1:]...)
			return nil
		}
	}
	return nil
}
