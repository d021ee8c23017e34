// Package memory provides an in-memory implementation of storage.RecordStore
// for testing and lightweight deployments. Records are stored in memory and
// lost when the process restarts. Optional LRU eviction limits memory usage.
package memory

import (
	"container/list"
	"context"
	"sort"
	"sync"

	"github.com/xutq/Raycast-Easydict/pkg/storage"
)

// entry holds a stored record and its position in the LRU list.
type entry struct {
	rec     *storage.Record
	lruElem *list.Element
}

// Store is an in-memory RecordStore with optional LRU eviction.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	lruList *list.List // front = most recently added, back = oldest
	maxSize int        // 0 = unlimited
}

// Ensure Store implements storage.RecordStore at compile time.
var _ storage.RecordStore = (*Store)(nil)

// New creates a new in-memory store. If maxSize is 0, the store grows
// without limit. If maxSize > 0, the oldest entry is evicted when the
// limit is reached.
func New(maxSize int) *Store {
	return &Store{
		entries: make(map[string]*entry),
		lruList: list.New(),
		maxSize: maxSize,
	}
}

// SaveRecord persists a record in memory.
func (s *Store) SaveRecord(_ context.Context, rec *storage.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[rec.ID]; exists {
		return storage.ErrConflict
	}

	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	elem := s.lruList.PushFront(rec.ID)
	s.entries[rec.ID] = &entry{rec: rec, lruElem: elem}

	return nil
}

// GetRecord retrieves a record by ID.
func (s *Store) GetRecord(_ context.Context, id string) (*storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return e.rec, nil
}

// RecentRecords returns up to limit records, newest first.
func (s *Store) RecentRecords(_ context.Context, limit int) ([]*storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*storage.Record, 0, len(s.entries))
	for _, e := range s.entries {
		records = append(records, e.rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// evictOldest removes the oldest entry.
// Must be called with s.mu held.
func (s *Store) evictOldest() {
	back := s.lruList.Back()
	if back == nil {
		return
	}

	id := back.Value.(string)
	s.lruList.Remove(back)
	delete(s.entries, id)
}
