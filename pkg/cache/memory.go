package cache

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	entries *xsync.MapOf[string, *Entry]
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: xsync.NewMapOf[string, *Entry](),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	e, ok := s.entries.Load(key)
	if !ok {
		return nil, ErrNotFound
	}
	if e.Expired(s.now()) {
		s.entries.Delete(key)
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, e *Entry) error {
	s.entries.Store(key, e)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	return s.entries.Size()
}

// Cleanup removes expired entries and returns how many were removed.
func (s *MemoryStore) Cleanup() int {
	now := s.now()
	removed := 0
	s.entries.Range(func(key string, e *Entry) bool {
		if e.Expired(now) {
			s.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func (s *MemoryStore) Close() error {
	s.entries.Clear()
	return nil
}
