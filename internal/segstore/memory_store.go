package segstore

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	set       SegmentSet
	expiresAt time.Time
}

// MemoryStore keeps segment sets in process. Used when no Redis URL is
// configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, set SegmentSet, ttl time.Duration) error {
	if set.ID == "" {
		return fmt.Errorf("save segment set: missing id")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := s.now()
	if set.CreatedAt.IsZero() {
		set.CreatedAt = now.UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[set.ID] = memoryEntry{set: set, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (SegmentSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return SegmentSet{}, fmt.Errorf("load segment set %s: %w", id, ErrNotFound)
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return SegmentSet{}, fmt.Errorf("load segment set %s: %w", id, ErrNotFound)
	}
	return entry.set, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
