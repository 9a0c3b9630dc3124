package profile

import (
	"context"
	"sync"
	"time"

	id "bestbosses/pkg/domain"
	"bestbosses/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in a map for tests and single-node runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.UserID]*Profile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.UserID]*Profile)}
}

func (s *InMemoryStore) Create(_ context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[p.UserID]; exists {
		return sentinel.ErrConflict
	}
	cp := *p
	s.profiles[p.UserID] = &cp
	return nil
}

func (s *InMemoryStore) ByUserID(_ context.Context, userID id.UserID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryStore) SetHasApprovedNomination(_ context.Context, userID id.UserID, value bool, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.HasApprovedNomination = value
	p.UpdatedAt = now
	return nil
}
