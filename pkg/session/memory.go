package session

import (
	"context"
	"sync"
	"time"

	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/peer"
)

type memoryRecord struct {
	input tg.InputPeerClass
	seen  time.Time
}

// MemoryStore is an in-process Store. Records carry a last-seen timestamp
// so a Janitor can evict entries that stopped appearing in updates.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[peer.ID]memoryRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[peer.ID]memoryRecord),
		now:     time.Now,
	}
}

func (s *MemoryStore) InputPeer(_ context.Context, id peer.ID) (tg.InputPeerClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.input, nil
}

func (s *MemoryStore) Save(_ context.Context, snapshot map[peer.ID]any) error {
	if len(snapshot) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := s.now()
	for id, ent := range snapshot {
		input, ok := usableInput(ent)
		if !ok {
			continue
		}
		s.records[id] = memoryRecord{input: input, seen: seen}
	}
	return nil
}

// Prune evicts every record last seen before the cutoff and returns the
// number of evictions.
func (s *MemoryStore) Prune(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, rec := range s.records {
		if rec.seen.Before(before) {
			delete(s.records, id)
			n++
		}
	}
	return n
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
