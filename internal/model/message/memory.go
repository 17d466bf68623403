package message

import (
	"context"
	"sync"
)

// MemoryStore implements Store in process memory. The value lives as long as
// the process does.
type MemoryStore struct {
	mu      sync.RWMutex
	current *Message
}

// NewMemoryStore returns an empty, uninitialized MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Initialize seeds the default message if nothing is stored yet.
func (s *MemoryStore) Initialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		m := Default()
		s.current = &m
	}
	return nil
}

// GetCurrent returns the stored message.
func (s *MemoryStore) GetCurrent(_ context.Context) (Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Message{}, ErrNotFound
	}
	return *s.current, nil
}

// SetCurrent replaces the stored message.
func (s *MemoryStore) SetCurrent(_ context.Context, content, expectedVersion string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expectedVersion != "" {
		if s.current == nil {
			return Message{}, ErrNotFound
		}
		if s.current.Version != expectedVersion {
			return Message{}, ErrConflict
		}
	}

	m := New(content)
	s.current = &m
	return m, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
