package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var errNotInitialized = errors.New("store not initialized")

// MemoryStore keeps entries in process memory, keyed by digest.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	byDigest    map[string]Entry
}

// NewMemoryStore returns an empty store. Call Init before use.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Init prepares the store. It is safe to call more than once.
func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	if s.byDigest == nil {
		s.byDigest = make(map[string]Entry)
	}
	return nil
}

// Save inserts e, or updates the entry with the same digest while keeping
// its ID, creation time and, when e.Note is empty, its note.
func (s *MemoryStore) Save(_ context.Context, e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return Entry{}, errNotInitialized
	}
	if prev, ok := s.byDigest[e.Digest]; ok {
		e.ID = prev.ID
		e.CreatedAt = prev.CreatedAt
		if e.Note == "" {
			e.Note = prev.Note
		}
	}
	s.byDigest[e.Digest] = e
	return e, nil
}

// Get looks an entry up by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return Entry{}, false, errNotInitialized
	}
	for _, e := range s.byDigest {
		if e.ID == id {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

// GetByDigest looks an entry up by spec digest.
func (s *MemoryStore) GetByDigest(_ context.Context, digest string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return Entry{}, false, errNotInitialized
	}
	e, ok := s.byDigest[digest]
	return e, ok, nil
}

// List returns all entries ordered by name, then digest.
func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	out := make([]Entry, 0, len(s.byDigest))
	for _, e := range s.byDigest {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Digest < out[j].Digest
	})
	return out, nil
}
