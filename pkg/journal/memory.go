package journal

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps entries in memory. Entries are lost on exit.
type MemoryStore struct {
	entries []*Entry
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record stores a copy of entry.
func (s *MemoryStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == entry.ID {
			return storageError("memory", "record", fmt.Errorf("duplicate entry id %q", entry.ID))
		}
	}
	s.entries = append(s.entries, copyEntry(entry))
	return nil
}

// List returns matching entries, newest first.
func (s *MemoryStore) List(ctx context.Context, q *Query) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Entry
	for _, e := range s.entries {
		if q.matches(e) {
			out = append(out, copyEntry(e))
		}
	}
	slices.SortStableFunc(out, func(a, b *Entry) int {
		return b.Time.Compare(a.Time)
	})
	if q != nil && q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Get returns the entry with the given id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return copyEntry(e), nil
		}
	}
	return nil, ErrNotFound
}

// Count returns the number of entries.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}

// DeleteBefore removes entries older than cutoff.
func (s *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e *Entry) bool {
		return e.Time.Before(cutoff)
	})
	return int64(before - len(s.entries)), nil
}

// Trim removes the oldest entries until at most keep remain.
func (s *MemoryStore) Trim(ctx context.Context, keep int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	excess := int64(len(s.entries)) - keep
	if excess <= 0 {
		return 0, nil
	}
	slices.SortStableFunc(s.entries, func(a, b *Entry) int {
		return a.Time.Compare(b.Time)
	})
	s.entries = slices.Delete(s.entries, 0, int(excess))
	return excess, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func copyEntry(e *Entry) *Entry {
	c := *e
	c.Resources = slices.Clone(e.Resources)
	return &c
}
