package nomination

import (
	"context"
	"sort"
	"sync"
	"time"

	id "bestbosses/pkg/domain"
	"bestbosses/pkg/platform/sentinel"
)

// InMemoryStore keeps nominations in a map for tests and single-node runs.
type InMemoryStore struct {
	mu          sync.RWMutex
	nominations map[id.NominationID]*Nomination
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nominations: make(map[id.NominationID]*Nomination)}
}

func (s *InMemoryStore) Create(_ context.Context, n *Nomination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.nominations[n.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *n
	s.nominations[n.ID] = &cp
	return nil
}

func (s *InMemoryStore) ByID(_ context.Context, nominationID id.NominationID) (*Nomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nominations[nominationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *InMemoryStore) ByNominator(_ context.Context, nominatorID id.UserID) ([]*Nomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Nomination
	for _, n := range s.nominations {
		if n.NominatorID == nominatorID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Nomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Nomination, 0, len(s.nominations))
	for _, n := range s.nominations {
		cp := *n
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	return out, nil
}

// UpdateStatus applies the conditional pending-only transition under the
// store lock, which makes it atomic for this implementation.
func (s *InMemoryStore) UpdateStatus(_ context.Context, nominationID id.NominationID, next Status, now time.Time) (*Nomination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nominations[nominationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if n.Status != StatusPending {
		return nil, sentinel.ErrInvalidState
	}
	n.Status = next
	n.UpdatedAt = now
	cp := *n
	return &cp, nil
}

func sortNewestFirst(nominations []*Nomination) {
	sort.Slice(nominations, func(i, j int) bool {
		if nominations[i].CreatedAt.Equal(nominations[j].CreatedAt) {
			return nominations[i].ID.String() > nominations[j].ID.String()
		}
		return nominations[i].CreatedAt.After(nominations[j].CreatedAt)
	})
}
