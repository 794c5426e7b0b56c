package store

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/spec-kit/department-summary/internal/domain"
)

// MemoryStore keeps the snapshot in process memory.
type MemoryStore struct {
	current atomic.Pointer[domain.Snapshot]
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Replace publishes snap. Callers must not mutate snap afterwards.
func (s *MemoryStore) Replace(_ context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	s.current.Store(snap)
	return nil
}

// Current returns the last published snapshot.
func (s *MemoryStore) Current(_ context.Context) (*domain.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
