package feedback

import (
	"sync"

	"homefinance-recurring-service/pkg/errors"
)

// MemoryStore keeps ids and decisions in process memory. It is safe for
// concurrent use. State is lost when the process exits, which is fine for
// tests and one-off detection runs.
type MemoryStore struct {
	mu      sync.Mutex
	ids     map[Key]int64
	keys    map[int64]Key
	entries map[int64]Entry
	nextID  int64
}

// NewMemoryStore creates an empty in-memory store. Ids start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ids:     make(map[Key]int64),
		keys:    make(map[int64]Key),
		entries: make(map[int64]Entry),
		nextID:  1,
	}
}

// AssignID returns the existing id for the key or mints the next one
func (s *MemoryStore) AssignID(key Key) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.ids[key]; ok {
		return id, nil
	}

	id := s.nextID
	s.nextID++
	s.ids[key] = id
	s.keys[id] = key

	return id, nil
}

// Feedback returns the recorded decision for the key, or the zero Entry
func (s *MemoryStore) Feedback(key Key) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.ids[key]
	if !ok {
		return Entry{}, nil
	}

	return s.entries[id], nil
}

// Confirm marks the pattern confirmed, clearing any prior rejection
func (s *MemoryStore) Confirm(patternID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[patternID]; !ok {
		return errors.PatternNotFoundError(patternID)
	}

	s.entries[patternID] = Entry{IsConfirmed: true}
	return nil
}

// Reject marks the pattern rejected, clearing any prior confirmation
func (s *MemoryStore) Reject(patternID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[patternID]; !ok {
		return errors.PatternNotFoundError(patternID)
	}

	s.entries[patternID] = Entry{IsRejected: true}
	return nil
}

// Exists reports whether the id has been assigned
func (s *MemoryStore) Exists(patternID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.keys[patternID]
	return ok, nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}
