package boss

import (
	"context"
	"sort"
	"sync"

	id "bestbosses/pkg/domain"
	"bestbosses/pkg/platform/sentinel"
)

// InMemoryStore keeps boss records in maps for tests and single-node runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	bySlug map[string]*Boss
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{bySlug: make(map[string]*Boss)}
}

func (s *InMemoryStore) Create(_ context.Context, b *Boss) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bySlug[b.Slug]; exists {
		return sentinel.ErrConflict
	}
	for _, existing := range s.bySlug {
		if existing.NominationID == b.NominationID {
			return sentinel.ErrConflict
		}
	}
	cp := *b
	s.bySlug[b.Slug] = &cp
	return nil
}

func (s *InMemoryStore) BySlug(_ context.Context, slug string) (*Boss, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bySlug[slug]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *InMemoryStore) ByNominationID(_ context.Context, nominationID id.NominationID) (*Boss, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bySlug {
		if b.NominationID == nominationID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context) ([]*Boss, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Boss, 0, len(s.bySlug))
	for _, b := range s.bySlug {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Slug > out[j].Slug
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
