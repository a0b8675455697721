package feedback

import (
	"context"
	"sort"
	"sync"
	"time"

	"wardops.org/internal/auth"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps feedback records in a map. Used in tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Feedback
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Feedback)}
}

func (s *MemoryStore) Create(ctx context.Context, f *Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[f.ID]; ok {
		return auth.ErrAlreadyExists
	}
	cp := *f
	s.records[f.ID] = &cp
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, id string) (*Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.records[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Feedback, 0, len(s.records))
	for _, f := range s.records {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) SetResponse(ctx context.Context, id, response string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.records[id]
	if !ok {
		return auth.ErrNotFound
	}
	f.Response = response
	f.Status = StatusResponded
	f.UpdatedAt = time.Now().UTC()
	return nil
}
