package audit

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in memory, newest last. Used by tests and
// single-process setups.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *e)
	return nil
}

func (s *MemoryStore) List(_ context.Context, opts ListOptions) ([]Entry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.entries)

	// Newest first.
	reversed := make([]Entry, 0, total)
	for i := total - 1; i >= 0; i-- {
		reversed = append(reversed, s.entries[i])
	}
	start := (opts.Page - 1) * opts.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + opts.PageSize
	if end > total {
		end = total
	}
	return reversed[start:end], total, nil
}
